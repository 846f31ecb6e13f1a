package service

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// PayoutFeePolicy 提现手续费与最低金额
// fee = round2(amount * Rate + Fixed)，不超过 amount
type PayoutFeePolicy struct {
	Rate      decimal.Decimal
	Fixed     decimal.Decimal
	MinAmount decimal.Decimal
}

// NewPayoutFeePolicy 从配置字符串构建策略，空串视为 0
func NewPayoutFeePolicy(rate, fixed, minAmount string) (PayoutFeePolicy, error) {
	policy := PayoutFeePolicy{}
	var err error
	if policy.Rate, err = parseOptionalDecimal(rate); err != nil {
		return policy, fmt.Errorf("payout fee rate: %w", err)
	}
	if policy.Fixed, err = parseOptionalDecimal(fixed); err != nil {
		return policy, fmt.Errorf("payout fee fixed: %w", err)
	}
	if policy.MinAmount, err = parseOptionalDecimal(minAmount); err != nil {
		return policy, fmt.Errorf("payout min amount: %w", err)
	}
	if policy.Rate.IsNegative() || policy.Rate.GreaterThanOrEqual(decimal.NewFromInt(1)) ||
		policy.Fixed.IsNegative() || policy.MinAmount.IsNegative() {
		return policy, fmt.Errorf("payout fee policy out of range: rate=%s fixed=%s min=%s",
			policy.Rate, policy.Fixed, policy.MinAmount)
	}
	return policy, nil
}

// Fee 计算手续费
func (p PayoutFeePolicy) Fee(amount decimal.Decimal) decimal.Decimal {
	fee := amount.Mul(p.Rate).Add(p.Fixed).Round(2)
	if fee.GreaterThan(amount) {
		return amount
	}
	return fee
}

// CheckMinimum 校验最低提现金额
func (p PayoutFeePolicy) CheckMinimum(amount decimal.Decimal) error {
	if p.MinAmount.IsPositive() && amount.LessThan(p.MinAmount) {
		return fmt.Errorf("%w: minimum %s", ErrPayoutBelowMinimum, p.MinAmount.StringFixed(2))
	}
	return nil
}

func parseOptionalDecimal(raw string) (decimal.Decimal, error) {
	if raw == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(raw)
}
