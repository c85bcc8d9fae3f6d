package offset

import "testing"

func TestCollectionIsValid(t *testing.T) {
	tests := []struct {
		name string
		c    Collection
		want bool
	}{
		{"zero value", Collection{}, false},
		{"missing version", Collection{SongList: 1, JudgeData: 1, PlaySettings: 1, PlayData: 1, CurrentSong: 1}, false},
		{"missing song list", Collection{Version: "v1", JudgeData: 1, PlaySettings: 1, PlayData: 1, CurrentSong: 1}, false},
		{"missing judge data", Collection{Version: "v1", SongList: 1, PlaySettings: 1, PlayData: 1, CurrentSong: 1}, false},
		{"missing play settings", Collection{Version: "v1", SongList: 1, JudgeData: 1, PlayData: 1, CurrentSong: 1}, false},
		{"missing play data", Collection{Version: "v1", SongList: 1, JudgeData: 1, PlaySettings: 1, CurrentSong: 1}, false},
		{"missing current song", Collection{Version: "v1", SongList: 1, JudgeData: 1, PlaySettings: 1, PlayData: 1}, false},
		{
			"required fields present, optional fields zero",
			Collection{Version: "v1", SongList: 1, JudgeData: 2, PlaySettings: 4, PlayData: 3, CurrentSong: 7},
			true,
		},
		{
			"all fields present",
			Collection{
				Version: "v1", SongList: 1, JudgeData: 2, PlayData: 3,
				PlaySettings: 4, DataMap: 5, UnlockData: 6, CurrentSong: 7,
			},
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.c.IsValid(); got != tt.want {
				t.Errorf("IsValid() = %v, want %v", got, tt.want)
			}
		})
	}
}
