// Package service 刷新与捕获服务
package service

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nikhilgurjar7605-collab/waifu-bot/internal/config"
	"github.com/nikhilgurjar7605-collab/waifu-bot/internal/database/models"
	"github.com/nikhilgurjar7605-collab/waifu-bot/internal/database/repository"
	"github.com/nikhilgurjar7605-collab/waifu-bot/pkg/logger"
	"github.com/nikhilgurjar7605-collab/waifu-bot/pkg/utils"
)

var (
	ErrPlayerBanned   = errors.New("player is banned")
	ErrNoActiveSpawn  = errors.New("no active spawn in this group")
	ErrCharacterGone  = errors.New("spawn character no longer exists")
	ErrEmptyCatalog   = errors.New("character catalog is empty")
	ErrAlreadyClaimed = errors.New("spawn already claimed")
)

// SpawnService 刷新与捕获服务
//
// 每个群同一时间最多一条活跃刷新，抢夺落在数据库的单条条件更新上，
// 无论多少实例、多少 goroutine 同时到达，只有一个赢家。
type SpawnService struct {
	charRepo       *repository.CharacterRepository
	playerRepo     *repository.PlayerRepository
	collectionRepo *repository.CollectionRepository
	spawnRepo      *repository.SpawnRepository
	cfg            *config.Config
}

// NewSpawnService 创建刷新服务
func NewSpawnService() *SpawnService {
	return &SpawnService{
		charRepo:       repository.NewCharacterRepository(),
		playerRepo:     repository.NewPlayerRepository(),
		collectionRepo: repository.NewCollectionRepository(),
		spawnRepo:      repository.NewSpawnRepository(),
		cfg:            config.Get(),
	}
}

func spawnCooldownKey(groupID int64) string {
	return fmt.Sprintf("spawn_cd:%d", groupID)
}

// ShouldSpawn 判断本条消息是否触发刷新
//
// 冷却期内直接否决，冷却外按概率掷骰。冷却状态放在进程内缓存，
// 命中概率后立刻占位，同群并发消息不会连刷两只。
func (s *SpawnService) ShouldSpawn(groupID int64) bool {
	key := spawnCooldownKey(groupID)
	if _, found := utils.CacheGet(key); found {
		return false
	}
	if rand.Float64() >= s.cfg.Spawn.Chance {
		return false
	}
	cooldown := time.Duration(s.cfg.Spawn.CooldownSec) * time.Second
	// Add 失败说明另一条消息刚抢先占了冷却位
	return utils.CacheSetNX(key, time.Now(), cooldown)
}

// PickCharacter 按稀有度权重随机抽取一只角色
func (s *SpawnService) PickCharacter() (*models.Character, error) {
	chars, err := s.charRepo.GetSpawnable()
	if err != nil {
		return nil, err
	}
	if len(chars) == 0 {
		return nil, ErrEmptyCatalog
	}
	return pickWeighted(chars, rand.Float64()), nil
}

// pickWeighted 带权抽样，roll 取 [0,1)
func pickWeighted(chars []models.Character, roll float64) *models.Character {
	total := 0
	for i := range chars {
		total += chars[i].Rarity.Weight()
	}
	target := int(roll * float64(total))
	acc := 0
	for i := range chars {
		acc += chars[i].Rarity.Weight()
		if target < acc {
			return &chars[i]
		}
	}
	return &chars[len(chars)-1]
}

// RegisterResult 刷新登记结果
type RegisterResult struct {
	Token     string
	Character *models.Character
}

// RegisterSpawn 登记一次刷新
//
// token 标识这一次刷新，后续的抢夺与过期清理都凭它对号。
func (s *SpawnService) RegisterSpawn(groupID int64, char *models.Character, messageID int) (*RegisterResult, error) {
	token := uuid.New().String()
	spawn := &models.ActiveSpawn{
		GroupID:   groupID,
		CharID:    char.ID,
		Token:     token,
		MessageID: messageID,
		SpawnedAt: time.Now().UTC(),
	}
	if err := s.spawnRepo.Upsert(spawn); err != nil {
		return nil, err
	}

	logger.Info().
		Int64("group_id", groupID).
		Uint("char_id", char.ID).
		Str("rarity", string(char.Rarity)).
		Msg("character spawned")

	return &RegisterResult{Token: token, Character: char}, nil
}

// ActiveSpawn 查询群内当前活跃刷新及其角色
func (s *SpawnService) ActiveSpawn(groupID int64) (*models.ActiveSpawn, *models.Character, error) {
	spawn, err := s.spawnRepo.GetActive(groupID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrNoActiveSpawn
		}
		return nil, nil, err
	}
	char, err := s.charRepo.GetByID(spawn.CharID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrCharacterGone
		}
		return nil, nil, err
	}
	return spawn, char, nil
}

// ClaimResult 捕获结果
type ClaimResult struct {
	Character *models.Character
	Reward    int64
	Duplicate bool // 捕获前是否已拥有该角色
	Catches   int64
	MessageID int
}

// Claim 尝试捕获群内当前刷新
//
// 流程固定：读活跃刷新 -> 条件更新抢夺 -> 赢家落账。
// token 非空时要求与活跃刷新对号，旧消息上的按钮抢不到新刷新。
// 检查放在抢夺之前，落账失败不回滚胜负，只记日志。
func (s *SpawnService) Claim(groupID, userID int64, username, firstName, token string) (*ClaimResult, error) {
	player, err := s.playerRepo.EnsureExists(userID, username, firstName)
	if err != nil {
		return nil, err
	}
	if player.Banned {
		return nil, ErrPlayerBanned
	}

	spawn, err := s.spawnRepo.GetActive(groupID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoActiveSpawn
		}
		return nil, err
	}
	if token != "" && spawn.Token != token {
		return nil, ErrNoActiveSpawn
	}

	char, err := s.charRepo.GetByID(spawn.CharID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// 角色在刷新后被管理员删了，顺手清掉这条刷新
			_, _ = s.spawnRepo.ClearIfMatches(groupID, spawn.Token)
			return nil, ErrCharacterGone
		}
		return nil, err
	}

	// 去重判定必须在抢夺之前，否则赢家判定自己刚抢到的那条
	hadBefore, err := s.collectionRepo.Has(userID, char.ID)
	if err != nil {
		return nil, err
	}

	won, err := s.spawnRepo.AtomicClaim(groupID, spawn.Token, userID)
	if err != nil {
		return nil, err
	}
	if !won {
		return nil, ErrAlreadyClaimed
	}

	reward := int64(s.cfg.Spawn.CatchReward)
	if err := s.collectionRepo.Add(userID, char.ID); err != nil {
		logger.Error().Err(err).Int64("user_id", userID).Uint("char_id", char.ID).
			Msg("failed to record collection entry after claim")
	}
	if err := s.playerRepo.IncrementCatches(userID, reward); err != nil {
		logger.Error().Err(err).Int64("user_id", userID).
			Msg("failed to credit catch reward")
	}
	if _, err := s.spawnRepo.ClearIfMatches(groupID, spawn.Token); err != nil {
		logger.Error().Err(err).Int64("group_id", groupID).
			Msg("failed to clear settled spawn")
	}

	logger.Info().
		Int64("group_id", groupID).
		Int64("user_id", userID).
		Str("character", char.Name).
		Msg("character caught")

	return &ClaimResult{
		Character: char,
		Reward:    reward,
		Duplicate: hadBefore,
		Catches:   player.Catches + 1,
		MessageID: spawn.MessageID,
	}, nil
}

// ExpireIfUnclaimed 捕获窗口到期后清理未被抢走的刷新
// 返回是否确实过期清理（false 说明已被抢走或被新刷新覆盖）
//
// 删除条件自带未抢判定，不做先读后删，读删之间被人抢走也不会误删。
func (s *SpawnService) ExpireIfUnclaimed(groupID int64, token string) (bool, error) {
	return s.spawnRepo.ClearIfUnclaimed(groupID, token)
}

// SweepStale 清扫超期残留刷新，进程重启后兜底
func (s *SpawnService) SweepStale() {
	window := time.Duration(s.cfg.Spawn.CatchWindowSec) * time.Second
	cutoff := time.Now().UTC().Add(-2 * window)
	n, err := s.spawnRepo.DeleteStale(cutoff)
	if err != nil {
		logger.Error().Err(err).Msg("stale spawn sweep failed")
		return
	}
	if n > 0 {
		logger.Info().Int64("count", n).Msg("stale spawns cleared")
	}
}

// CatchWindow 当前捕获窗口时长
func (s *SpawnService) CatchWindow() time.Duration {
	return time.Duration(s.cfg.Spawn.CatchWindowSec) * time.Second
}
