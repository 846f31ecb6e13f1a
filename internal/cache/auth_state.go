package cache

import (
	"context"
	"fmt"
	"time"
)

const authStateTTL = 10 * time.Minute

// AuthState 登录主体的鉴权快照，避免每个请求都查库
type AuthState struct {
	Subject      string `json:"subject"` // admin / vendor
	ID           uint   `json:"id"`
	Status       string `json:"status,omitempty"`
	TokenVersion uint64 `json:"token_version"`
	IsSuper      bool   `json:"is_super,omitempty"`
}

func authStateKey(subject string, id uint) string {
	return fmt.Sprintf("auth:%s:%d", subject, id)
}

// GetAuthState 读取快照
func GetAuthState(ctx context.Context, subject string, id uint) (*AuthState, bool, error) {
	if id == 0 {
		return nil, false, nil
	}
	var state AuthState
	hit, err := GetJSON(ctx, authStateKey(subject, id), &state)
	if err != nil || !hit {
		return nil, hit, err
	}
	return &state, true, nil
}

// SetAuthState 写入快照
func SetAuthState(ctx context.Context, state *AuthState) error {
	if state == nil || state.ID == 0 {
		return nil
	}
	return SetJSON(ctx, authStateKey(state.Subject, state.ID), state, authStateTTL)
}

// DelAuthState 删除快照（改密、停用、token 失效时调用）
func DelAuthState(ctx context.Context, subject string, id uint) error {
	if id == 0 {
		return nil
	}
	return Del(ctx, authStateKey(subject, id))
}
