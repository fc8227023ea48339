package profile

// FF802 is the Fireface 802 device profile, ported from
// original_source/device_ff802.c. It has no DUREC or Room EQ subsystem
// (flags=0 in the original), supplementing ffucxii as a second concrete
// profile the engine can select by device id.
var FF802 = &Profile{
	ID:      "ff802",
	Name:    "Fireface 802",
	Version: 30,
	Flags:   0,
	Inputs: []ChannelInfo{
		{Name: "Analog 1", Flags: HasGain | HasRefLevel},
		{Name: "Analog 2", Flags: HasGain | HasRefLevel},
		{Name: "Analog 3", Flags: HasGain | HasRefLevel},
		{Name: "Analog 4", Flags: HasGain | HasRefLevel},
		{Name: "Analog 5", Flags: HasGain | HasRefLevel},
		{Name: "Analog 6", Flags: HasGain | HasRefLevel},
		{Name: "Analog 7", Flags: HasGain | HasRefLevel},
		{Name: "Analog 8", Flags: HasGain | HasRefLevel},
		{Name: "Mic/Inst 9", Flags: Has48V | HasHiZ},
		{Name: "Mic/Inst 10", Flags: Has48V | HasHiZ},
		{Name: "Mic/Inst 11", Flags: Has48V | HasHiZ},
		{Name: "Mic/Inst 12", Flags: Has48V | HasHiZ},
		{Name: "AES L"}, {Name: "AES R"},
		{Name: "ADAT 1"}, {Name: "ADAT 2"}, {Name: "ADAT 3"}, {Name: "ADAT 4"},
		{Name: "ADAT 5"}, {Name: "ADAT 6"}, {Name: "ADAT 7"}, {Name: "ADAT 8"},
		{Name: "ADAT 9"}, {Name: "ADAT 10"}, {Name: "ADAT 11"}, {Name: "ADAT 12"},
		{Name: "ADAT 13"}, {Name: "ADAT 14"}, {Name: "ADAT 15"}, {Name: "ADAT 16"},
	},
	Outputs: []ChannelInfo{
		{Name: "Analog 1", Flags: HasRefLevel},
		{Name: "Analog 2", Flags: HasRefLevel},
		{Name: "Analog 3", Flags: HasRefLevel},
		{Name: "Analog 4", Flags: HasRefLevel},
		{Name: "Analog 5", Flags: HasRefLevel},
		{Name: "Analog 6", Flags: HasRefLevel},
		{Name: "Analog 7", Flags: HasRefLevel},
		{Name: "Analog 8", Flags: HasRefLevel},
		{Name: "Phones 9", Flags: HasRefLevel},
		{Name: "Phones 10", Flags: HasRefLevel},
		{Name: "Phones 11", Flags: HasRefLevel},
		{Name: "Phones 12", Flags: HasRefLevel},
		{Name: "AES L"}, {Name: "AES R"},
		{Name: "ADAT 1"}, {Name: "ADAT 2"}, {Name: "ADAT 3"}, {Name: "ADAT 4"},
		{Name: "ADAT 5"}, {Name: "ADAT 6"}, {Name: "ADAT 7"}, {Name: "ADAT 8"},
		{Name: "ADAT 9"}, {Name: "ADAT 10"}, {Name: "ADAT 11"}, {Name: "ADAT 12"},
		{Name: "ADAT 13"}, {Name: "ADAT 14"}, {Name: "ADAT 15"}, {Name: "ADAT 16"},
	},
}

// ByID looks up a known profile by its device id string, the way
// original_source's main() matches the command-line -d argument against
// ffucxii.id / ff802.id.
func ByID(id string) (*Profile, bool) {
	switch id {
	case FFUCXII.ID:
		return FFUCXII, true
	case FF802.ID:
		return FF802, true
	default:
		return nil, false
	}
}

// All returns every known profile, for listing and for by-name device
// matching against Name as well as ID.
func All() []*Profile {
	return []*Profile{FFUCXII, FF802}
}
