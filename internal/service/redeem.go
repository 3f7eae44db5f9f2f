package service

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/nikhilgurjar7605-collab/waifu-bot/internal/database/models"
	"github.com/nikhilgurjar7605-collab/waifu-bot/internal/database/repository"
	"github.com/nikhilgurjar7605-collab/waifu-bot/pkg/logger"
	"github.com/nikhilgurjar7605-collab/waifu-bot/pkg/utils"
)

var (
	ErrCodeNotFound    = errors.New("redeem code not found")
	ErrCodeExpired     = errors.New("redeem code expired")
	ErrCodeExhausted   = errors.New("redeem code fully used")
	ErrCodeAlreadyUsed = errors.New("code already redeemed by this user")
)

// RedeemService 兑换码服务
type RedeemService struct {
	codeRepo       *repository.CodeRepository
	playerRepo     *repository.PlayerRepository
	charRepo       *repository.CharacterRepository
	collectionRepo *repository.CollectionRepository
	generator      *GeneratorService
	notify         Notifier
}

// NewRedeemService 创建兑换服务
func NewRedeemService() *RedeemService {
	return &RedeemService{
		codeRepo:       repository.NewCodeRepository(),
		playerRepo:     repository.NewPlayerRepository(),
		charRepo:       repository.NewCharacterRepository(),
		collectionRepo: repository.NewCollectionRepository(),
		generator:      NewGeneratorService(),
	}
}

// SetNotifier 注入私信回调
func (s *RedeemService) SetNotifier(n Notifier) {
	s.notify = n
}

// GenerateCodeRequest 生成兑换码请求
type GenerateCodeRequest struct {
	Coins      int64
	MaxUses    int
	ExpireDays int
	CharID     *uint
	CreatedBy  int64
}

// GenerateCode 生成一个兑换码
func (s *RedeemService) GenerateCode(req *GenerateCodeRequest) (*models.RedeemCode, error) {
	if req.CharID != nil {
		if _, err := s.charRepo.GetByID(*req.CharID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrCharacterGone
			}
			return nil, err
		}
	}

	value, err := utils.GenerateCode()
	if err != nil {
		return nil, err
	}

	maxUses := req.MaxUses
	if maxUses <= 0 {
		maxUses = 1
	}
	code := &models.RedeemCode{
		Code:      value,
		Coins:     req.Coins,
		CharID:    req.CharID,
		MaxUses:   maxUses,
		CreatedBy: req.CreatedBy,
	}
	if req.ExpireDays > 0 {
		expires := time.Now().UTC().AddDate(0, 0, req.ExpireDays)
		code.ExpiresAt = &expires
	}
	if err := s.codeRepo.Create(code); err != nil {
		return nil, err
	}

	logger.Info().Str("code", value).Int64("coins", req.Coins).Int("max_uses", maxUses).
		Msg("redeem code created")
	return code, nil
}

// RedeemResult 兑换结果
type RedeemResult struct {
	Coins     int64
	Character *models.Character
}

// Redeem 玩家兑换一个码
//
// 顺序固定：查码 -> 本人去重 -> 原子消耗次数 -> 发放。
// 消耗一步是唯一的并发闸口，次数打满后其余请求全部失败。
func (s *RedeemService) Redeem(userID int64, username, firstName, codeValue string) (*RedeemResult, error) {
	codeValue = strings.ToUpper(strings.TrimSpace(codeValue))

	player, err := s.playerRepo.EnsureExists(userID, username, firstName)
	if err != nil {
		return nil, err
	}
	if player.Banned {
		return nil, ErrPlayerBanned
	}

	code, err := s.codeRepo.GetByCode(codeValue)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCodeNotFound
		}
		return nil, err
	}

	now := time.Now().UTC()
	if code.IsExpired(now) {
		return nil, ErrCodeExpired
	}
	if code.IsExhausted() {
		return nil, ErrCodeExhausted
	}

	redeemed, err := s.codeRepo.HasRedeemed(codeValue, userID)
	if err != nil {
		return nil, err
	}
	if redeemed {
		return nil, ErrCodeAlreadyUsed
	}

	ok, err := s.codeRepo.ConsumeUse(codeValue, now)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrCodeExhausted
	}

	if err := s.codeRepo.CreateLog(codeValue, userID); err != nil {
		logger.Error().Err(err).Str("code", codeValue).Int64("user_id", userID).
			Msg("failed to record redemption")
	}

	result := &RedeemResult{Coins: code.Coins}
	if code.Coins > 0 {
		if err := s.playerRepo.AddCoins(userID, code.Coins); err != nil {
			return nil, err
		}
		CheckMilestones(s.playerRepo, s.generator, s.notify, userID)
	}
	if code.GivesCharacter() {
		char, err := s.charRepo.GetByID(*code.CharID)
		if err == nil {
			if err := s.collectionRepo.Add(userID, char.ID); err == nil {
				result.Character = char
			}
		} else {
			logger.Warn().Uint("char_id", *code.CharID).Str("code", codeValue).
				Msg("code character missing, coins only")
		}
	}

	logger.Info().Str("code", codeValue).Int64("user_id", userID).
		Msg("code redeemed")
	return result, nil
}

// ListCodes 管理端列出全部兑换码
func (s *RedeemService) ListCodes() ([]models.RedeemCode, error) {
	return s.codeRepo.List()
}

// DeleteCode 删除兑换码
func (s *RedeemService) DeleteCode(code string) error {
	ok, err := s.codeRepo.Delete(strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		return err
	}
	if !ok {
		return ErrCodeNotFound
	}
	return nil
}
