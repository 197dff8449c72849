package models

// 10-band equalizer. Band levels are 0-24 where 12 = 0 dB, so a level
// converts to gain as level-12 dB.
const (
	EQBands  = 10
	EQMin    = 0
	EQCenter = 12
	EQMax    = 24

	CustomPresetSlots   = 3
	CustomPresetNameLen = 16
	DefaultVolume       = 50
	MaxLastURLLen       = 256
)

// EQPreset identifies a named factory curve.
type EQPreset int

const (
	PresetFlat EQPreset = iota
	PresetRock
	PresetPop
	PresetJazz
	PresetClassical
	PresetBassBoost
	PresetVocal
	PresetElectronic
	PresetAcoustic
	PresetCustom
)

// EQPresetInfo is a named factory EQ curve.
type EQPresetInfo struct {
	Preset EQPreset       `json:"id"`
	Name   string         `json:"name"`
	Bands  [EQBands]uint8 `json:"bands"`
}

// EQPresets are the factory curves, in preset-id order.
var EQPresets = []EQPresetInfo{
	{PresetFlat, "Flat", [EQBands]uint8{12, 12, 12, 12, 12, 12, 12, 12, 12, 12}},
	{PresetRock, "Rock", [EQBands]uint8{15, 14, 10, 9, 11, 13, 15, 15, 14, 14}},
	{PresetPop, "Pop", [EQBands]uint8{10, 11, 13, 15, 15, 14, 12, 11, 12, 12}},
	{PresetJazz, "Jazz", [EQBands]uint8{14, 13, 11, 13, 10, 12, 12, 13, 14, 14}},
	{PresetClassical, "Classical", [EQBands]uint8{12, 12, 12, 12, 12, 10, 9, 9, 11, 13}},
	{PresetBassBoost, "Bass+", [EQBands]uint8{18, 17, 15, 13, 12, 12, 12, 12, 12, 12}},
	{PresetVocal, "Vocal", [EQBands]uint8{9, 10, 12, 14, 16, 16, 15, 13, 11, 10}},
	{PresetElectronic, "Electronic", [EQBands]uint8{16, 15, 12, 10, 11, 10, 12, 14, 15, 16}},
	{PresetAcoustic, "Acoustic", [EQBands]uint8{13, 13, 12, 12, 13, 13, 12, 12, 13, 12}},
	{PresetCustom, "Custom", [EQBands]uint8{12, 12, 12, 12, 12, 12, 12, 12, 12, 12}},
}

// EQBandLabels are the center frequencies of the 10 bands.
var EQBandLabels = [EQBands]string{"31", "62", "125", "250", "500", "1k", "2k", "4k", "8k", "16k"}

// CustomPreset is one user-saved EQ slot.
type CustomPreset struct {
	Used  bool           `json:"used"`
	Name  string         `json:"name"`
	Bands [EQBands]uint8 `json:"bands"`
}

// AudioSettings is everything the settings store persists as one blob.
type AudioSettings struct {
	Volume        int                             `json:"volume"`
	Bands         [EQBands]uint8                  `json:"eq_bands"`
	Balance       int                             `json:"balance"` // -100 full left .. +100 full right
	BassBoost     bool                            `json:"bass_boost"`
	Loudness      bool                            `json:"loudness"`
	StereoWide    bool                            `json:"stereo_wide"`
	Preset        EQPreset                        `json:"preset"`
	CustomPreset  int                             `json:"custom_preset"` // active slot, -1 = none
	CustomPresets [CustomPresetSlots]CustomPreset `json:"custom_presets"`
	Autostart     bool                            `json:"autostart"`
	LastURL       string                          `json:"last_url"`
}

// DefaultAudioSettings returns the factory state.
func DefaultAudioSettings() AudioSettings {
	s := AudioSettings{
		Volume:       DefaultVolume,
		Balance:      0,
		Preset:       PresetFlat,
		CustomPreset: -1,
	}
	for i := range s.Bands {
		s.Bands[i] = EQCenter
	}
	for i := range s.CustomPresets {
		s.CustomPresets[i].Bands = EQPresets[PresetFlat].Bands
	}
	return s
}
