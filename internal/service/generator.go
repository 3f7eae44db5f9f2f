package service

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"

	"github.com/nikhilgurjar7605-collab/waifu-bot/internal/database/models"
	"github.com/nikhilgurjar7605-collab/waifu-bot/internal/database/repository"
	"github.com/nikhilgurjar7605-collab/waifu-bot/pkg/logger"
)

var ErrAlreadyAwarded = errors.New("award already granted for this period")

// 定制角色名字素材池
var (
	firstNames = []string{
		"Aiko", "Hana", "Yuki", "Sakura", "Rin", "Mei", "Akira", "Sora",
		"Kira", "Luna", "Rei", "Mio", "Asuka", "Hinata", "Kaede", "Nami",
	}
	lastNames = []string{
		"Takahashi", "Yamamoto", "Kobayashi", "Nakamura", "Fujiwara",
		"Shirogane", "Kurosawa", "Amamiya", "Hoshino", "Tsukino",
	}
	animeWorlds = []string{
		"Celestial Academy", "Phantom Realm", "Crystal Gardens",
		"Shadow Empire", "Starlight Kingdom", "Mystic Valley",
		"Eternal Sanctuary", "Dragon's Haven",
	}
	titles = []string{
		"the Radiant", "the Eternal", "the Mystic", "the Valiant",
		"the Serene", "the Fierce", "the Gentle", "the Legendary",
	}
)

// GeneratorService 定制角色生成器
//
// 周榜奖励、里程碑、管理员手动发放都走这里。生成的角色是专属角色，
// 不进普通刷新池，绑定持有者。
type GeneratorService struct {
	charRepo       *repository.CharacterRepository
	collectionRepo *repository.CollectionRepository
	awardRepo      *repository.AwardRepository
}

// NewGeneratorService 创建生成器服务
func NewGeneratorService() *GeneratorService {
	return &GeneratorService{
		charRepo:       repository.NewCharacterRepository(),
		collectionRepo: repository.NewCollectionRepository(),
		awardRepo:      repository.NewAwardRepository(),
	}
}

// ComposeName 组合角色名，尾缀取受赠者名字的首字母，空名用 X 占位
func ComposeName(rng *rand.Rand, recipientName string) string {
	initial := "X"
	if trimmed := strings.TrimSpace(recipientName); trimmed != "" {
		initial = strings.ToUpper(string([]rune(trimmed)[0]))
	}
	return fmt.Sprintf("%s %s %s [%s]",
		firstNames[rng.Intn(len(firstNames))],
		lastNames[rng.Intn(len(lastNames))],
		titles[rng.Intn(len(titles))],
		initial)
}

// ComposeWorld 组合出处描述，按奖励类型加前缀
func ComposeWorld(rng *rand.Rand, kind models.AwardKind) string {
	world := animeWorlds[rng.Intn(len(animeWorlds))]
	switch kind {
	case models.AwardKindLeaderboard:
		return "Champions of " + world
	case models.AwardKindMilestone:
		return "Treasury of " + world
	default:
		return world
	}
}

// AwardReason 按奖励类型生成描述文案
func AwardReason(kind models.AwardKind, period string, rank int) string {
	switch kind {
	case models.AwardKindLeaderboard:
		return fmt.Sprintf("Champions of %s", period)
	case models.AwardKindMilestone:
		return fmt.Sprintf("Treasury of %s coins", period)
	default:
		return "Special grant"
	}
}

// GenerateRequest 生成请求
type GenerateRequest struct {
	UserID    int64
	FirstName string // 受赠者名字，定制角色名的尾缀来源
	Kind      models.AwardKind
	Period    string // 周榜填周号，里程碑填档位，管理员发放留空
	Reason    string
	Rank      int
	AddedBy   int64
}

// GenerateResult 生成结果
type GenerateResult struct {
	Character *models.Character
	Award     *models.CustomAward
}

// Generate 为玩家生成一只专属定制角色并入库、入收藏、记发放
//
// (user, kind, period) 去重，周任务或里程碑检查重跑不会重复发。
func (g *GeneratorService) Generate(req *GenerateRequest) (*GenerateResult, error) {
	if req.Period != "" {
		has, err := g.awardRepo.HasAwardForPeriod(req.UserID, req.Kind, req.Period)
		if err != nil {
			return nil, err
		}
		if has {
			return nil, ErrAlreadyAwarded
		}
	}

	rng := rand.New(rand.NewSource(rand.Int63()))
	reason := req.Reason
	if reason == "" {
		reason = AwardReason(req.Kind, req.Period, req.Rank)
	}

	char := &models.Character{
		Name:     ComposeName(rng, req.FirstName),
		Anime:    ComposeWorld(rng, req.Kind),
		Rarity:   models.RarityLegendary,
		AddedBy:  req.AddedBy,
		IsCustom: true,
		OwnerID:  &req.UserID,
	}
	if err := g.charRepo.Create(char); err != nil {
		return nil, err
	}
	if err := g.collectionRepo.Add(req.UserID, char.ID); err != nil {
		return nil, err
	}

	award := &models.CustomAward{
		UserID: req.UserID,
		CharID: char.ID,
		Kind:   req.Kind,
		Period: req.Period,
		Reason: reason,
	}
	if err := g.awardRepo.Create(award); err != nil {
		return nil, err
	}

	logger.Info().
		Int64("user_id", req.UserID).
		Uint("char_id", char.ID).
		Str("kind", string(req.Kind)).
		Str("period", req.Period).
		Msg("custom character generated")

	return &GenerateResult{Character: char, Award: award}, nil
}
