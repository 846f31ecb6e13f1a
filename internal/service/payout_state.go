package service

import (
	"github.com/vendora/internal/constants"
)

// payoutTransition 一个动作允许的源状态与目标状态
type payoutTransition struct {
	from []string
	to   string
}

// payoutTransitions 提现状态机，唯一的流转依据；表外组合一律拒绝
var payoutTransitions = map[string]payoutTransition{
	constants.PayoutActionSubmit: {
		from: []string{constants.PayoutStatusPending},
		to:   constants.PayoutStatusProcessing,
	},
	constants.PayoutActionComplete: {
		from: []string{constants.PayoutStatusProcessing},
		to:   constants.PayoutStatusCompleted,
	},
	constants.PayoutActionFail: {
		from: []string{constants.PayoutStatusProcessing},
		to:   constants.PayoutStatusFailed,
	},
	constants.PayoutActionRetry: {
		from: []string{constants.PayoutStatusFailed},
		to:   constants.PayoutStatusPending,
	},
	constants.PayoutActionCancel: {
		from: []string{constants.PayoutStatusPending, constants.PayoutStatusProcessing},
		to:   constants.PayoutStatusCancelled,
	},
	constants.PayoutActionReverse: {
		from: []string{constants.PayoutStatusCompleted},
		to:   constants.PayoutStatusReversed,
	},
}

// payoutStatuses 全部提现状态
var payoutStatuses = []string{
	constants.PayoutStatusPending,
	constants.PayoutStatusProcessing,
	constants.PayoutStatusCompleted,
	constants.PayoutStatusFailed,
	constants.PayoutStatusReversed,
	constants.PayoutStatusCancelled,
}

// reservingPayoutStatuses 占用可提现余额的状态
// failed / cancelled 释放占用；reversed 仍视为已消耗，需人工调整入账
var reservingPayoutStatuses = []string{
	constants.PayoutStatusPending,
	constants.PayoutStatusProcessing,
	constants.PayoutStatusCompleted,
	constants.PayoutStatusReversed,
}

// nextPayoutStatus 校验 (当前状态, 动作) 并返回目标状态
func nextPayoutStatus(current, action string) (string, error) {
	transition, ok := payoutTransitions[action]
	if !ok {
		return "", &TransitionError{From: current, Action: action}
	}
	for _, from := range transition.from {
		if from == current {
			return transition.to, nil
		}
	}
	return "", &TransitionError{From: current, Action: action}
}

// isPayoutReserving 该状态是否占用余额
func isPayoutReserving(status string) bool {
	for _, s := range reservingPayoutStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// isValidPayoutStatus 是否为已定义状态
func isValidPayoutStatus(status string) bool {
	for _, s := range payoutStatuses {
		if s == status {
			return true
		}
	}
	return false
}
