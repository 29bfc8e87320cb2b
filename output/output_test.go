package output

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testOffsets = Offsets{
	"client.dll": {
		"dwEntityList":            0x17B8B10,
		"dwLocalPlayerController": 0x1A2D2A8,
	},
	"engine2.dll": {
		"dwBuildNumber": 0x48BE84,
	},
}

var testPatterns = Patterns{
	"client.dll": {
		"dwEntityList":            "488935${'} 4885f6",
		"dwLocalPlayerController": "488905${'} 8b9e",
	},
	"engine2.dll": {
		"dwBuildNumber": "8905${'} 488d0d${} ff15${} 488b0d",
	},
}

func render(t *testing.T, write func(f *Formatter) error) string {
	var sb strings.Builder
	require.NoError(t, write(NewFormatter(&sb, 4)))
	return sb.String()
}

func TestOffsetsWriteCS(t *testing.T) {
	want := `namespace CS2Dumper.Offsets;

public static class GlobalOffsets {
    public static class client_dll {
        public const nint dwEntityList = 0x17B8B10;
        public const nint dwLocalPlayerController = 0x1A2D2A8;
    }

    public static class engine2_dll {
        public const nint dwBuildNumber = 0x48BE84;
    }

}
`
	assert.Equal(t, want, render(t, testOffsets.WriteCS))
}

func TestOffsetsWriteHpp(t *testing.T) {
	want := `#pragma once

#include <cstddef>

namespace CS2Dumper::Offsets {
    namespace client_dll {
        constexpr std::ptrdiff_t dwEntityList = 0x17B8B10;
        constexpr std::ptrdiff_t dwLocalPlayerController = 0x1A2D2A8;
    }

    namespace engine2_dll {
        constexpr std::ptrdiff_t dwBuildNumber = 0x48BE84;
    }
}
`
	assert.Equal(t, want, render(t, testOffsets.WriteHpp))
}

func TestOffsetsWriteRust(t *testing.T) {
	want := `pub mod cs2_dumper_offsets {
    pub mod client_dll {
        pub const DW_ENTITY_LIST: usize = 0x17B8B10;
        pub const DW_LOCAL_PLAYER_CONTROLLER: usize = 0x1A2D2A8;
    }

    pub mod engine2_dll {
        pub const DW_BUILD_NUMBER: usize = 0x48BE84;
    }
}
`
	assert.Equal(t, want, render(t, testOffsets.WriteRust))
}

func TestOffsetsWriteJSON(t *testing.T) {
	want := `{
  "client.dll": {
    "dwEntityList": 24873744,
    "dwLocalPlayerController": 27447976
  },
  "engine2.dll": {
    "dwBuildNumber": 4767364
  }
}
`
	assert.Equal(t, want, render(t, testOffsets.WriteJSON))
}

func TestPatternsWriteCS(t *testing.T) {
	want := `namespace CS2Dumper.Patterns;

public static class GlobalPatterns {
    public static class client_dll {
        public const string dwEntityList = @"488935${'} 4885f6";
        public const string dwLocalPlayerController = @"488905${'} 8b9e";
    }

    public static class engine2_dll {
        public const string dwBuildNumber = @"8905${'} 488d0d${} ff15${} 488b0d";
    }

}
`
	assert.Equal(t, want, render(t, testPatterns.WriteCS))
}

func TestPatternsWriteHpp(t *testing.T) {
	want := `#pragma once

namespace CS2Dumper::Patterns {
    namespace client_dll {
        constexpr const char* dwEntityList = R"-(488935${'} 4885f6)-";
        constexpr const char* dwLocalPlayerController = R"-(488905${'} 8b9e)-";
    }

    namespace engine2_dll {
        constexpr const char* dwBuildNumber = R"-(8905${'} 488d0d${} ff15${} 488b0d)-";
    }
}
`
	assert.Equal(t, want, render(t, testPatterns.WriteHpp))
}

func TestPatternsWriteRust(t *testing.T) {
	want := `pub mod cs2_dumper_patterns {
    pub mod client_dll {
        pub const DW_ENTITY_LIST: &str = r#"488935${'} 4885f6"#;
        pub const DW_LOCAL_PLAYER_CONTROLLER: &str = r#"488905${'} 8b9e"#;
    }

    pub mod engine2_dll {
        pub const DW_BUILD_NUMBER: &str = r#"8905${'} 488d0d${} ff15${} 488b0d"#;
    }
}
`
	assert.Equal(t, want, render(t, testPatterns.WriteRust))
}

func TestWriteFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, WriteFiles(dir, Formats, testOffsets, testPatterns))

	for _, stem := range []string{"offsets", "patterns"} {
		for _, format := range Formats {
			path := filepath.Join(dir, stem+"."+format)
			data, err := os.ReadFile(path)
			require.NoError(t, err, path)
			assert.NotEmpty(t, data, path)
		}
	}

	data, err := os.ReadFile(filepath.Join(dir, "offsets.hpp"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "constexpr std::ptrdiff_t dwEntityList = 0x17B8B10;")
}

func TestWriteFilesRejectsUnknownFormat(t *testing.T) {
	err := WriteFiles(t.TempDir(), []string{"ini"}, testOffsets, testPatterns)
	assert.Error(t, err)
}
