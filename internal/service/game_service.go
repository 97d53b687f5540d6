package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/sleepquest/diary-api/internal/dto"
	"github.com/sleepquest/diary-api/internal/models"
	"github.com/sleepquest/diary-api/internal/repository"
)

// ErrInvalidItem indicates a malformed inventory item identifier.
var ErrInvalidItem = errors.New("invalid inventory item")

// GameStateInvalidator drops a participant's cached game snapshot. The diary
// engine calls it after an accepted submission so the game never reads stale
// completed-day counts.
type GameStateInvalidator interface {
	InvalidateState(ctx context.Context, code string)
}

// GameService is the server side of the embedded game integration: it serves
// the state snapshot the game reads on load and accepts reward callbacks.
type GameService interface {
	GameStateInvalidator
	State(ctx context.Context, code string) (dto.GameStateResponse, error)
	UpdateCoins(ctx context.Context, code string, coins int) (dto.GameStateResponse, error)
	AddInventoryItem(ctx context.Context, code, item string) (dto.GameStateResponse, error)
}

type gameService struct {
	participants repository.ParticipantRepository
	cache        *redis.Client
	cacheTTL     time.Duration
	logger       zerolog.Logger
}

// NewGameService constructs a GameService instance.
func NewGameService(participants repository.ParticipantRepository, cache *redis.Client, ttl time.Duration, logger zerolog.Logger) GameService {
	return &gameService{
		participants: participants,
		cache:        cache,
		cacheTTL:     ttl,
		logger:       logger.With().Str("component", "game_service").Logger(),
	}
}

func gameStateKey(code string) string {
	return fmt.Sprintf("game:state:%s", code)
}

func (s *gameService) State(ctx context.Context, code string) (dto.GameStateResponse, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, gameStateKey(code)).Result(); err == nil {
			var state dto.GameStateResponse
			if unmarshalErr := json.Unmarshal([]byte(cached), &state); unmarshalErr == nil {
				s.logger.Debug().Str("code", code).Msg("game state cache hit")
				return state, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read game state cache")
		}
	}

	participant, err := s.participants.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.GameStateResponse{}, ErrParticipantNotFound
		}
		return dto.GameStateResponse{}, err
	}

	state := buildGameState(participant)

	if s.cache != nil {
		if payload, err := json.Marshal(state); err == nil {
			if err := s.cache.Set(ctx, gameStateKey(code), payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store game state cache")
			}
		}
	}

	return state, nil
}

func (s *gameService) UpdateCoins(ctx context.Context, code string, coins int) (dto.GameStateResponse, error) {
	if coins < 0 {
		return dto.GameStateResponse{}, fmt.Errorf("coin balance must not be negative")
	}

	if err := s.participants.Update(ctx, code, repository.ParticipantUpdate{Coins: &coins}); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.GameStateResponse{}, ErrParticipantNotFound
		}
		return dto.GameStateResponse{}, err
	}

	s.InvalidateState(ctx, code)
	s.logger.Info().Str("code", code).Int("coins", coins).Msg("coin balance updated")

	return s.State(ctx, code)
}

func (s *gameService) AddInventoryItem(ctx context.Context, code, item string) (dto.GameStateResponse, error) {
	if item == "" {
		return dto.GameStateResponse{}, ErrInvalidItem
	}

	participant, err := s.participants.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.GameStateResponse{}, ErrParticipantNotFound
		}
		return dto.GameStateResponse{}, err
	}

	inventory := participant.InventoryItems()
	for _, owned := range inventory {
		if owned == item {
			return buildGameState(participant), nil
		}
	}
	inventory = append(inventory, item)

	if err := s.participants.Update(ctx, code, repository.ParticipantUpdate{Inventory: inventory}); err != nil {
		return dto.GameStateResponse{}, err
	}

	s.InvalidateState(ctx, code)
	s.logger.Info().Str("code", code).Str("item", item).Msg("inventory item unlocked")

	participant.Inventory = inventory
	return buildGameState(participant), nil
}

func (s *gameService) InvalidateState(ctx context.Context, code string) {
	if s.cache == nil {
		return
	}

	if err := s.cache.Del(ctx, gameStateKey(code)).Err(); err != nil {
		s.logger.Warn().Err(err).Str("code", code).Msg("failed to invalidate game state cache")
	}
}

func buildGameState(p models.Participant) dto.GameStateResponse {
	return dto.GameStateResponse{
		Token:         p.Code,
		CompletedDays: p.CompletedDays,
		Streak:        p.Streak,
		Coins:         p.Coins,
		Inventory:     p.InventoryItems(),
	}
}
