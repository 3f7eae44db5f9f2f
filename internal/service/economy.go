package service

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/nikhilgurjar7605-collab/waifu-bot/internal/config"
	"github.com/nikhilgurjar7605-collab/waifu-bot/internal/database/models"
	"github.com/nikhilgurjar7605-collab/waifu-bot/internal/database/repository"
	"github.com/nikhilgurjar7605-collab/waifu-bot/pkg/logger"
	"github.com/nikhilgurjar7605-collab/waifu-bot/pkg/utils"
)

var (
	ErrDailyOnCooldown    = errors.New("daily reward already claimed")
	ErrInsufficientCoins  = errors.New("not enough coins")
	ErrInvalidBet         = errors.New("invalid bet amount")
	ErrCharacterNotOwned  = errors.New("character not in collection")
	ErrCannotBurnCustom   = errors.New("custom characters cannot be burned")
	ErrCannotGiftSelf     = errors.New("cannot gift coins to yourself")
	ErrPlayerNotFound     = errors.New("player not found")
)

// EconomyService 经济服务
type EconomyService struct {
	playerRepo     *repository.PlayerRepository
	charRepo       *repository.CharacterRepository
	collectionRepo *repository.CollectionRepository
	generator      *GeneratorService
	cfg            *config.Config
	notify         Notifier
}

// NewEconomyService 创建经济服务
func NewEconomyService() *EconomyService {
	return &EconomyService{
		playerRepo:     repository.NewPlayerRepository(),
		charRepo:       repository.NewCharacterRepository(),
		collectionRepo: repository.NewCollectionRepository(),
		generator:      NewGeneratorService(),
		cfg:            config.Get(),
	}
}

// SetNotifier 注入私信回调
func (s *EconomyService) SetNotifier(n Notifier) {
	s.notify = n
}

// DailyResult 每日签到结果
type DailyResult struct {
	Amount  int64
	Balance int64
}

// Daily 每日签到，冷却 24 小时，金额在配置区间内随机
func (s *EconomyService) Daily(userID int64, username, firstName string) (*DailyResult, error) {
	player, err := s.playerRepo.EnsureExists(userID, username, firstName)
	if err != nil {
		return nil, err
	}
	if player.Banned {
		return nil, ErrPlayerBanned
	}

	now := time.Now().UTC()
	if !player.CanClaimDaily(now) {
		return nil, ErrDailyOnCooldown
	}

	amount, err := utils.RandomInt(int64(s.cfg.Economy.DailyMin), int64(s.cfg.Economy.DailyMax))
	if err != nil {
		return nil, err
	}
	if err := s.playerRepo.AddCoins(userID, amount); err != nil {
		return nil, err
	}
	if err := s.playerRepo.SetLastDaily(userID, now); err != nil {
		return nil, err
	}

	s.afterCoinsChanged(userID)
	return &DailyResult{Amount: amount, Balance: player.Coins + amount}, nil
}

// CoinflipResult 掷硬币结果
type CoinflipResult struct {
	Won     bool
	Amount  int64
	Balance int64
}

// Coinflip 押注掷硬币，赢翻倍输扣光
func (s *EconomyService) Coinflip(userID int64, bet int64) (*CoinflipResult, error) {
	if bet <= 0 {
		return nil, ErrInvalidBet
	}
	player, err := s.playerRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, err
	}
	if player.Banned {
		return nil, ErrPlayerBanned
	}

	// 先原子扣注，余额不足直接失败，并发下不会扣成负数
	ok, err := s.playerRepo.DeductCoins(userID, bet)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInsufficientCoins
	}

	won, err := utils.CoinFlip()
	if err != nil {
		// 掷骰失败退注
		_ = s.playerRepo.AddCoins(userID, bet)
		return nil, err
	}

	result := &CoinflipResult{Won: won, Amount: bet}
	if won {
		if err := s.playerRepo.AddCoins(userID, bet*2); err != nil {
			return nil, err
		}
		_ = s.playerRepo.AddWin(userID)
		result.Balance = player.Coins + bet
	} else {
		_ = s.playerRepo.AddLoss(userID)
		result.Balance = player.Coins - bet
	}

	s.afterCoinsChanged(userID)
	return result, nil
}

// DuelResult 决斗结算结果
type DuelResult struct {
	WinnerID int64
	LoserID  int64
	Pot      int64
}

// Duel 两人押同额赌注，掷签定胜负，赢家通吃
// 两边都先原子扣注，任何一边扣不动就整单回滚
func (s *EconomyService) Duel(challengerID, targetID int64, bet int64) (*DuelResult, error) {
	if bet <= 0 {
		return nil, ErrInvalidBet
	}

	ok, err := s.playerRepo.DeductCoins(challengerID, bet)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("challenger: %w", ErrInsufficientCoins)
	}
	ok, err = s.playerRepo.DeductCoins(targetID, bet)
	if err != nil {
		_ = s.playerRepo.AddCoins(challengerID, bet)
		return nil, err
	}
	if !ok {
		_ = s.playerRepo.AddCoins(challengerID, bet)
		return nil, fmt.Errorf("target: %w", ErrInsufficientCoins)
	}

	challengerWins, err := utils.CoinFlip()
	if err != nil {
		_ = s.playerRepo.AddCoins(challengerID, bet)
		_ = s.playerRepo.AddCoins(targetID, bet)
		return nil, err
	}

	result := &DuelResult{Pot: bet * 2}
	if challengerWins {
		result.WinnerID, result.LoserID = challengerID, targetID
	} else {
		result.WinnerID, result.LoserID = targetID, challengerID
	}

	if err := s.playerRepo.AddCoins(result.WinnerID, result.Pot); err != nil {
		return nil, err
	}
	_ = s.playerRepo.AddWin(result.WinnerID)
	_ = s.playerRepo.AddLoss(result.LoserID)

	s.afterCoinsChanged(result.WinnerID)
	logger.Info().Int64("winner", result.WinnerID).Int64("loser", result.LoserID).
		Int64("pot", result.Pot).Msg("duel settled")
	return result, nil
}

// BurnResult 烧毁结果
type BurnResult struct {
	Character *models.Character
	Value     int64
}

// Burn 烧毁一只收藏中的角色换金币，专属角色不可烧
func (s *EconomyService) Burn(userID int64, charID uint) (*BurnResult, error) {
	char, err := s.charRepo.GetByID(charID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCharacterNotOwned
		}
		return nil, err
	}
	if char.IsCustom {
		return nil, ErrCannotBurnCustom
	}

	removed, err := s.collectionRepo.RemoveOne(userID, charID)
	if err != nil {
		return nil, err
	}
	if !removed {
		return nil, ErrCharacterNotOwned
	}

	value := int64(s.cfg.Economy.BurnValue)
	if err := s.playerRepo.AddCoins(userID, value); err != nil {
		return nil, err
	}

	logger.Info().Int64("user_id", userID).Uint("char_id", charID).
		Msg("character burned")
	return &BurnResult{Character: char, Value: value}, nil
}

// Gift 转账金币给其他玩家
func (s *EconomyService) Gift(fromID, toID int64, amount int64) error {
	if fromID == toID {
		return ErrCannotGiftSelf
	}
	if amount <= 0 {
		return ErrInvalidBet
	}
	if _, err := s.playerRepo.GetByID(toID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPlayerNotFound
		}
		return err
	}

	ok, err := s.playerRepo.DeductCoins(fromID, amount)
	if err != nil {
		return err
	}
	if !ok {
		return ErrInsufficientCoins
	}
	if err := s.playerRepo.AddCoins(toID, amount); err != nil {
		return err
	}

	s.afterCoinsChanged(toID)
	logger.Info().Int64("from", fromID).Int64("to", toID).Int64("amount", amount).
		Msg("coins gifted")
	return nil
}

// GiveCoins 管理员加减金币
func (s *EconomyService) GiveCoins(userID int64, delta int64) error {
	if _, err := s.playerRepo.GetByID(userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPlayerNotFound
		}
		return err
	}
	if err := s.playerRepo.AddCoins(userID, delta); err != nil {
		return err
	}
	if delta > 0 {
		s.afterCoinsChanged(userID)
	}
	return nil
}

// afterCoinsChanged 金币变动后顺带做一次里程碑检查
func (s *EconomyService) afterCoinsChanged(userID int64) {
	CheckMilestones(s.playerRepo, s.generator, s.notify, userID)
}

// CoinName 货币显示名
func (s *EconomyService) CoinName() string {
	return s.cfg.Money
}

// FormatDailyRemaining 签到冷却剩余时间文案
func FormatDailyRemaining(player *models.Player, now time.Time) string {
	return fmt.Sprintf("⏳ Daily already claimed. Next claim in %s.",
		utils.FormatDuration(player.DailyRemaining(now)))
}
