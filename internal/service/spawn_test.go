package service

import (
	"math/rand"
	"testing"

	"github.com/nikhilgurjar7605-collab/waifu-bot/internal/database/models"
)

func TestPickWeighted(t *testing.T) {
	chars := []models.Character{
		{ID: 1, Name: "A", Rarity: models.RarityCommon},    // 权重 60
		{ID: 2, Name: "B", Rarity: models.RarityRare},      // 权重 10
		{ID: 3, Name: "C", Rarity: models.RarityLegendary}, // 权重 1
	}

	// 总权重 71，target = int(roll*71)
	tests := []struct {
		name   string
		roll   float64
		wantID uint
	}{
		{"最小值落在第一个", 0.0, 1},
		{"权重内落在第一个", 0.5, 1},
		{"越过第一个权重段", 0.86, 2},
		{"最大值落在最后一个", 0.999, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := pickWeighted(chars, tt.roll)
			if got.ID != tt.wantID {
				t.Errorf("pickWeighted(roll=%v) = %d, want %d", tt.roll, got.ID, tt.wantID)
			}
		})
	}
}

func TestPickWeighted_SingleCharacter(t *testing.T) {
	chars := []models.Character{{ID: 7, Rarity: models.RarityEpic}}
	for _, roll := range []float64{0, 0.5, 0.999} {
		if got := pickWeighted(chars, roll); got.ID != 7 {
			t.Errorf("pickWeighted(roll=%v) = %d, want 7", roll, got.ID)
		}
	}
}

// 大样本抽样应收敛到稀有度权重比例
func TestPickWeighted_Distribution(t *testing.T) {
	chars := []models.Character{
		{ID: 1, Rarity: models.RarityCommon},
		{ID: 2, Rarity: models.RarityUncommon},
		{ID: 3, Rarity: models.RarityRare},
		{ID: 4, Rarity: models.RarityEpic},
		{ID: 5, Rarity: models.RarityLegendary},
	}

	rng := rand.New(rand.NewSource(42))
	const draws = 100000
	counts := make(map[uint]int)
	for i := 0; i < draws; i++ {
		counts[pickWeighted(chars, rng.Float64()).ID]++
	}

	// 期望比例 60:25:10:4:1
	expected := map[uint]float64{1: 0.60, 2: 0.25, 3: 0.10, 4: 0.04, 5: 0.01}
	for id, want := range expected {
		got := float64(counts[id]) / draws
		if got < want*0.8 || got > want*1.2 {
			t.Errorf("角色 %d 抽中比例 %.4f，期望约 %.4f", id, got, want)
		}
	}
}
