package state_manager

import (
	"context"
	"fmt"

	"chapkhane/internal/storage/redis"
)

type UserDialogStateManager struct {
	redisStorage RedisStorage
}

func New(redisStorage RedisStorage) *UserDialogStateManager {
	return &UserDialogStateManager{redisStorage: redisStorage}
}

func (u *UserDialogStateManager) GetUserDialogState(ctx context.Context, chatID int64) (*redis.UserState, error) {
	state, err := u.redisStorage.GetUserDialogState(ctx, chatID)
	if err != nil {
		return nil, fmt.Errorf("redisStorage.GetUserDialogState failed: %w", err)
	}
	return state, nil
}

func (u *UserDialogStateManager) setUserDialogState(ctx context.Context, chatID int64, state *redis.UserState) error {
	if err := u.redisStorage.SetUserDialogState(ctx, chatID, state); err != nil {
		return fmt.Errorf("redisStorage.SetUserDialogState failed: %w", err)
	}
	return nil
}

func (u *UserDialogStateManager) SetStep(ctx context.Context, chatID int64, step string) error {
	state, err := u.GetUserDialogState(ctx, chatID)
	if err != nil {
		return fmt.Errorf("GetUserDialogState failed: %w", err)
	}

	state.Step = step

	return u.setUserDialogState(ctx, chatID, state)
}

// UpdateDraft applies fn to the chat's draft, creating it if needed, and
// moves the dialog to step. An error from fn leaves the state untouched.
func (u *UserDialogStateManager) UpdateDraft(ctx context.Context, chatID int64, step string, fn func(*redis.Draft) error) error {
	state, err := u.GetUserDialogState(ctx, chatID)
	if err != nil {
		return fmt.Errorf("GetUserDialogState failed: %w", err)
	}
	if state.Draft == nil {
		state.Draft = &redis.Draft{}
	}
	if err := fn(state.Draft); err != nil {
		return err
	}
	state.Step = step

	return u.setUserDialogState(ctx, chatID, state)
}

func (u *UserDialogStateManager) SetUserData(ctx context.Context, chatID int64, name, phone string) error {
	state, err := u.GetUserDialogState(ctx, chatID)
	if err != nil {
		return fmt.Errorf("GetUserDialogState failed: %w", err)
	}
	state.Userdata = &redis.UserData{Name: name, PhoneNumber: phone}

	return u.setUserDialogState(ctx, chatID, state)
}

// ResetDialogState starts a fresh order at step, keeping the contact details.
func (u *UserDialogStateManager) ResetDialogState(ctx context.Context, chatID int64, step string) error {
	prevState, err := u.GetUserDialogState(ctx, chatID)
	if err != nil {
		return fmt.Errorf("GetUserDialogState failed: %w", err)
	}

	return u.setUserDialogState(ctx, chatID, &redis.UserState{
		Step:     step,
		Userdata: prevState.Userdata,
		Draft:    &redis.Draft{},
	})
}

func (u *UserDialogStateManager) ClearState(ctx context.Context, chatID int64) error {
	return u.redisStorage.DropUserDialogState(ctx, chatID)
}
