package analysis

import (
	"github.com/HShasti/cs2-dumper/pattern"
	"github.com/HShasti/cs2-dumper/view"
)

// The signature catalog. Definitions are ordered; names are unique per
// module and may repeat across modules because results are keyed by
// module first.

var clientCatalog = newModuleCatalog("client.dll",
	defineWith("dwCSGOInput", "488905${'} 0f57c0 0f1105", func(v view.View, offsets map[string]uint32, rva uint32) {
		var save [2]uint32
		if pattern.NewScanner(v).FindsCode(viewAnglesPattern, save[:]) {
			offsets["dwViewAngles"] = rva + save[1]
		}
	}),
	define("dwEntityList", "488935${'} 4885f6"),
	define("dwGameEntitySystem", "488b1d${'} 48891d"),
	define("dwGameEntitySystem_highestEntityIndex", "8b81u2?? 8902 488bc2 c3 cccccccc 48895c24? 48896c24"),
	define("dwGameRules", "48891d${'} ff15${} 84c0"),
	define("dwGlobalVars", "488915${'} 488942"),
	define("dwGlowManager", "488b05${'} c3 cccccccccccccccc 8b41"),
	define("dwLocalPlayerController", "488905${'} 8b9e"),
	define("dwPlantedC4", "488b15${'} 41ffc0"),
	defineWith("dwPrediction", "488d05${'} c3 cccccccccccccccc 4883ec? 8b0d", func(_ view.View, offsets map[string]uint32, rva uint32) {
		offsets["dwLocalPlayerPawn"] = rva + 0x180
	}),
	define("dwSensitivity", "488d0d${[8]'} 440f28c1 0f28f3 0f28fa e8"),
	define("dwSensitivity_sensitivity", "ff50u1 4c8bc6 488d55? 488bcf e8${} 84c0 0f85${} 4c8d45? 8bd3 488bcf e8${} e9${} f30f1006"),
	define("dwViewMatrix", "488d0d${'} 48c1e006"),
	define("dwViewRender", "488905${'} 488bc8 4885c0"),
	define("dwWeaponC4", "488b15${'} 488b5c24? ffc0 8905[4] 488bc7"),
)

var viewAnglesPattern = pattern.MustCompile("f2410f108430u4")

var engine2Catalog = newModuleCatalog("engine2.dll",
	define("dwBuildNumber", "8905${'} 488d0d${} ff15${} 488b0d"),
	define("dwNetworkGameClient", "48893d${'} 488d15"),
	define("dwNetworkGameClient_clientTickCount", "8b81u4 c3 cccccccccccccccccc 8b81${} c3 cccccccccccccccccc 83b9"),
	define("dwNetworkGameClient_deltaTick", "89b3u4 8b45"),
	define("dwNetworkGameClient_isBackgroundMap", "0fb681u4 c3 cccccccccccccccc 0fb681${} c3 cccccccccccccccc 48895c24"),
	defineWith("dwNetworkGameClient_localPlayer", "4883c0u1 488d0440 8b0cc1", func(_ view.View, offsets map[string]uint32, rva uint32) {
		// .text 48 83 C0 0A | add rax, 0Ah
		// .text 48 8D 04 40 | lea rax, [rax + rax * 2]
		// .text 8B 0C C1    | mov ecx, [rcx + rax * 8]
		offsets["dwNetworkGameClient_localPlayer"] = (rva + rva*2) * 8
	}),
	define("dwNetworkGameClient_maxClients", "8b81u4 c3cccccccccccccccccc 8b81${} ffc0"),
	define("dwNetworkGameClient_serverTickCount", "8b81u4 c3 cccccccccccccccccc 83b9"),
	define("dwNetworkGameClient_signOnState", "448b81u4 488d0d"),
	define("dwWindowHeight", "8b05${'} 8903"),
	define("dwWindowWidth", "8b05${'} 8907"),
)

var inputSystemCatalog = newModuleCatalog("inputsystem.dll",
	define("dwInputSystem", "488905${'} 488d05"),
)

var matchmakingCatalog = newModuleCatalog("matchmaking.dll",
	define("dwGameTypes", "488d0d${'} 33d2"),
	define("dwGameTypes_mapName", "488b81u4 4885c074? 4883c0"),
)

var soundSystemCatalog = newModuleCatalog("soundsystem.dll",
	define("dwSoundSystem", "488d05${'} c3 cccccccccccccccc 488915"),
	define("dwSoundSystem_engineViewData", "0f1147u1 0f104b"),
)

// Catalogs returns the module catalogs in resolution order.
func Catalogs() []ModuleCatalog {
	return []ModuleCatalog{
		clientCatalog,
		engine2Catalog,
		inputSystemCatalog,
		matchmakingCatalog,
		soundSystemCatalog,
	}
}
