package service

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nikhilgurjar7605-collab/waifu-bot/internal/database/models"
	"github.com/nikhilgurjar7605-collab/waifu-bot/internal/database/repository"
	"github.com/nikhilgurjar7605-collab/waifu-bot/pkg/logger"
)

var (
	ErrTradeNotFound   = errors.New("trade not found")
	ErrTradeSettled    = errors.New("trade already settled")
	ErrNotTradeTarget  = errors.New("this trade is not addressed to you")
	ErrCannotTradeSelf = errors.New("cannot trade with yourself")
	ErrCustomNotTrade  = errors.New("custom characters cannot be traded")
)

// TradeService 交易服务
type TradeService struct {
	tradeRepo      *repository.TradeRepository
	charRepo       *repository.CharacterRepository
	collectionRepo *repository.CollectionRepository
	playerRepo     *repository.PlayerRepository
}

// NewTradeService 创建交易服务
func NewTradeService() *TradeService {
	return &TradeService{
		tradeRepo:      repository.NewTradeRepository(),
		charRepo:       repository.NewCharacterRepository(),
		collectionRepo: repository.NewCollectionRepository(),
		playerRepo:     repository.NewPlayerRepository(),
	}
}

// CreateTradeRequest 发起交易请求
type CreateTradeRequest struct {
	FromUser   int64
	ToUser     int64
	FromCharID uint
	ToCharID   *uint // 为空表示单方赠予
	Coins      int64
}

// CreateTrade 发起交易
//
// 发起时只校验持有与余额，不锁资产。真正的转移在 Accept 里做，
// 届时重新校验，资产已易手则交易作废。
func (s *TradeService) CreateTrade(req *CreateTradeRequest) (*models.Trade, error) {
	if req.FromUser == req.ToUser {
		return nil, ErrCannotTradeSelf
	}
	if req.Coins < 0 {
		return nil, ErrInvalidBet
	}

	fromChar, err := s.charRepo.GetByID(req.FromCharID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCharacterGone
		}
		return nil, err
	}
	if fromChar.IsCustom {
		return nil, ErrCustomNotTrade
	}
	has, err := s.collectionRepo.Has(req.FromUser, req.FromCharID)
	if err != nil {
		return nil, err
	}
	if !has {
		return nil, ErrCharacterNotOwned
	}
	if req.ToCharID != nil {
		toChar, err := s.charRepo.GetByID(*req.ToCharID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrCharacterGone
			}
			return nil, err
		}
		if toChar.IsCustom {
			return nil, ErrCustomNotTrade
		}
	}
	// 搭头的金币出自发起方口袋
	if req.Coins > 0 {
		proposer, err := s.playerRepo.GetByID(req.FromUser)
		if err != nil {
			return nil, err
		}
		if proposer.Coins < req.Coins {
			return nil, ErrInsufficientCoins
		}
	}

	// 同一发起方只保留一笔挂起交易，旧提议自动作废
	if _, err := s.tradeRepo.CancelAllPending(req.FromUser); err != nil {
		return nil, err
	}

	trade := &models.Trade{
		UUID:         uuid.New().String(),
		FromUser:     req.FromUser,
		ToUser:       req.ToUser,
		FromCharID:   req.FromCharID,
		ToCharID:     req.ToCharID,
		CoinsOffered: req.Coins,
		Status:       models.TradeStatusPending,
	}
	if err := s.tradeRepo.Create(trade); err != nil {
		return nil, err
	}
	return trade, nil
}

// Accept 接受交易并转移资产
func (s *TradeService) Accept(tradeUUID string, userID int64) (*models.Trade, error) {
	trade, err := s.tradeRepo.GetByUUID(tradeUUID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTradeNotFound
		}
		return nil, err
	}
	if trade.ToUser != userID {
		return nil, ErrNotTradeTarget
	}

	// 双方资产校验放在落定之前，校验失败交易保持 pending
	hasFrom, err := s.collectionRepo.Has(trade.FromUser, trade.FromCharID)
	if err != nil {
		return nil, err
	}
	if !hasFrom {
		_, _ = s.tradeRepo.SettleIfPending(tradeUUID, models.TradeStatusCancelled)
		return nil, ErrCharacterNotOwned
	}
	if trade.ToCharID != nil {
		hasTo, err := s.collectionRepo.Has(trade.ToUser, *trade.ToCharID)
		if err != nil {
			return nil, err
		}
		if !hasTo {
			return nil, ErrCharacterNotOwned
		}
	}
	// 发起方余额不够兑现搭头金币，整单作废
	if trade.CoinsOffered > 0 {
		proposer, err := s.playerRepo.GetByID(trade.FromUser)
		if err != nil {
			return nil, err
		}
		if proposer.Coins < trade.CoinsOffered {
			_, _ = s.tradeRepo.SettleIfPending(tradeUUID, models.TradeStatusCancelled)
			return nil, ErrInsufficientCoins
		}
	}

	ok, err := s.tradeRepo.SettleIfPending(tradeUUID, models.TradeStatusAccepted)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrTradeSettled
	}

	if _, err := s.collectionRepo.RemoveOne(trade.FromUser, trade.FromCharID); err == nil {
		_ = s.collectionRepo.Add(trade.ToUser, trade.FromCharID)
	}
	if trade.ToCharID != nil {
		if _, err := s.collectionRepo.RemoveOne(trade.ToUser, *trade.ToCharID); err == nil {
			_ = s.collectionRepo.Add(trade.FromUser, *trade.ToCharID)
		}
	}
	// 金币随提议方向走：发起方扣，接受方得
	if trade.CoinsOffered > 0 {
		if ok, _ := s.playerRepo.DeductCoins(trade.FromUser, trade.CoinsOffered); ok {
			_ = s.playerRepo.AddCoins(trade.ToUser, trade.CoinsOffered)
		}
	}

	logger.Info().Str("trade", tradeUUID).
		Int64("from", trade.FromUser).Int64("to", trade.ToUser).
		Msg("trade accepted")
	trade.Status = models.TradeStatusAccepted
	return trade, nil
}

// Decline 拒绝交易
func (s *TradeService) Decline(tradeUUID string, userID int64) error {
	trade, err := s.tradeRepo.GetByUUID(tradeUUID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTradeNotFound
		}
		return err
	}
	if trade.ToUser != userID {
		return ErrNotTradeTarget
	}
	ok, err := s.tradeRepo.SettleIfPending(tradeUUID, models.TradeStatusDeclined)
	if err != nil {
		return err
	}
	if !ok {
		return ErrTradeSettled
	}
	return nil
}

// Cancel 发起方撤销交易
func (s *TradeService) Cancel(tradeUUID string, userID int64) error {
	trade, err := s.tradeRepo.GetByUUID(tradeUUID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTradeNotFound
		}
		return err
	}
	if trade.FromUser != userID {
		return ErrNotTradeTarget
	}
	ok, err := s.tradeRepo.SettleIfPending(tradeUUID, models.TradeStatusCancelled)
	if err != nil {
		return err
	}
	if !ok {
		return ErrTradeSettled
	}
	return nil
}
