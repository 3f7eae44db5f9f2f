package handlers

import "testing"

func uintPtr(v uint) *uint { return &v }

func TestParseTradeArgs(t *testing.T) {
	tests := []struct {
		name      string
		args      []string
		wantFrom  uint
		wantTo    *uint
		wantCoins int64
		wantErr   bool
	}{
		{"单方赠予", []string{"5"}, 5, nil, 0, false},
		{"互换", []string{"5", "9"}, 5, uintPtr(9), 0, false},
		{"赠予搭金币", []string{"5", "+100"}, 5, nil, 100, false},
		{"互换搭金币", []string{"5", "9", "+100"}, 5, uintPtr(9), 100, false},
		{"金币必须为正", []string{"5", "+0"}, 0, nil, 0, true},
		{"金币不是数字", []string{"5", "+abc"}, 0, nil, 0, true},
		{"只有金币没有角色", []string{"+100"}, 0, nil, 0, true},
		{"参数过多", []string{"1", "2", "3"}, 0, nil, 0, true},
		{"角色 id 不是数字", []string{"abc"}, 0, nil, 0, true},
		{"空参数", nil, 0, nil, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			from, to, coins, err := parseTradeArgs(tt.args)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if from != tt.wantFrom {
				t.Errorf("fromCharID = %d, want %d", from, tt.wantFrom)
			}
			if coins != tt.wantCoins {
				t.Errorf("coins = %d, want %d", coins, tt.wantCoins)
			}
			switch {
			case tt.wantTo == nil && to != nil:
				t.Errorf("toCharID = %d, want nil", *to)
			case tt.wantTo != nil && to == nil:
				t.Errorf("toCharID = nil, want %d", *tt.wantTo)
			case tt.wantTo != nil && *to != *tt.wantTo:
				t.Errorf("toCharID = %d, want %d", *to, *tt.wantTo)
			}
		})
	}
}
