package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/vendora/internal/constants"
	"github.com/vendora/internal/models"
	"github.com/vendora/internal/repository"

	"github.com/shopspring/decimal"
)

// fundedVendor 已签收 1000 的商户，默认费率 0.08，可提现 920
func (e *testEnv) fundedVendor(t *testing.T) *models.Vendor {
	t.Helper()
	vendor := e.createVendor(t, "funded", "")
	e.createOrder(t, vendor.ID, 0, constants.OrderStatusDelivered, "1000")
	return vendor
}

func (e *testEnv) requestPayout(t *testing.T, vendorID uint, amount string) *models.Payout {
	t.Helper()
	payout, err := e.payouts.RequestPayout(context.Background(), RequestPayoutInput{
		VendorID:    vendorID,
		Amount:      dec(amount),
		Destination: bankDestination(),
	})
	if err != nil {
		t.Fatalf("request payout %s: %v", amount, err)
	}
	return payout
}

func (e *testEnv) withdrawable(t *testing.T, vendorID uint) decimal.Decimal {
	t.Helper()
	balance, err := e.payouts.GetBalance(context.Background(), vendorID)
	if err != nil {
		t.Fatalf("get balance: %v", err)
	}
	return balance.Withdrawable.Decimal
}

var adminActor = PayoutActor{Type: constants.ActorTypeAdmin, ID: 1}

func TestRequestPayoutExhaustsWithdrawable(t *testing.T) {
	env := setupServiceTest(t)
	vendor := env.fundedVendor(t)
	assertDecimal(t, "withdrawable", env.withdrawable(t, vendor.ID), "920")

	payout := env.requestPayout(t, vendor.ID, "920")
	if payout.Status != constants.PayoutStatusPending || payout.Reference == "" {
		t.Fatalf("unexpected payout: %+v", payout)
	}
	if payout.Method != constants.PayoutMethodBank {
		t.Fatalf("method should be inferred as bank, got %q", payout.Method)
	}
	assertDecimal(t, "withdrawable after request", env.withdrawable(t, vendor.ID), "0")

	_, err := env.payouts.RequestPayout(context.Background(), RequestPayoutInput{
		VendorID:    vendor.ID,
		Amount:      dec("1"),
		Destination: bankDestination(),
	})
	if !errors.Is(err, ErrInsufficientBalance) {
		t.Fatalf("expected ErrInsufficientBalance, got %v", err)
	}
	var balanceErr *InsufficientBalanceError
	if !errors.As(err, &balanceErr) || balanceErr.Withdrawable != "0.00" {
		t.Fatalf("expected structured balance error, got %#v", err)
	}

	payouts, total, err := env.payouts.List(repository.PayoutListFilter{VendorID: vendor.ID})
	if err != nil || total != 1 || len(payouts) != 1 {
		t.Fatalf("rejected request must not persist: total=%d err=%v", total, err)
	}
}

func TestRequestPayoutValidation(t *testing.T) {
	env := setupServiceTest(t)
	vendor := env.fundedVendor(t)
	env.payouts.fees = PayoutFeePolicy{MinAmount: dec("50")}

	mobile := PayoutDestination{
		BankAccountName:     "Ama Mensah",
		MobileMoneyProvider: "MTN",
		AccountNumber:       "0244000000",
	}
	both := bankDestination()
	both.MobileMoneyProvider = "MTN"

	cases := []struct {
		name   string
		amount string
		fee    string
		dest   PayoutDestination
		want   error
	}{
		{name: "zero amount", amount: "0", dest: bankDestination(), want: ErrPayoutAmountInvalid},
		{name: "sub cent amount", amount: "60.005", dest: bankDestination(), want: ErrPayoutAmountInvalid},
		{name: "below minimum", amount: "49.99", dest: bankDestination(), want: ErrPayoutBelowMinimum},
		{name: "fee equals amount", amount: "60", fee: "60", dest: bankDestination(), want: ErrPayoutFeeInvalid},
		{name: "negative fee", amount: "60", fee: "-1", dest: bankDestination(), want: ErrPayoutFeeInvalid},
		{name: "both destinations", amount: "60", dest: both, want: ErrPayoutDestinationInvalid},
		{name: "missing account", amount: "60", dest: PayoutDestination{BankName: "GCB"}, want: ErrPayoutDestinationInvalid},
		{name: "mobile money", amount: "60", fee: "1.5", dest: mobile},
	}
	for _, tc := range cases {
		fee := decimal.Zero
		if tc.fee != "" {
			fee = dec(tc.fee)
		}
		payout, err := env.payouts.RequestPayout(context.Background(), RequestPayoutInput{
			VendorID:    vendor.ID,
			Amount:      dec(tc.amount),
			Fee:         fee,
			Destination: tc.dest,
		})
		if tc.want != nil {
			if !errors.Is(err, tc.want) {
				t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("%s: unexpected error %v", tc.name, err)
		}
		if payout.Method != constants.PayoutMethodMobileMoney || payout.NetAmount.String() != "58.50" {
			t.Fatalf("%s: unexpected payout %+v", tc.name, payout)
		}
	}
}

func TestRequestPayoutRejectsSuspendedVendor(t *testing.T) {
	env := setupServiceTest(t)
	vendor := env.fundedVendor(t)
	if err := env.db.Model(vendor).Update("status", constants.VendorStatusSuspended).Error; err != nil {
		t.Fatalf("suspend vendor: %v", err)
	}
	_, err := env.payouts.RequestPayout(context.Background(), RequestPayoutInput{
		VendorID:    vendor.ID,
		Amount:      dec("10"),
		Destination: bankDestination(),
	})
	if !errors.Is(err, ErrAccountDisabled) {
		t.Fatalf("expected ErrAccountDisabled, got %v", err)
	}
}

func TestRequestPayoutConcurrentNeverOverdraws(t *testing.T) {
	env := setupServiceTest(t)
	vendor := env.fundedVendor(t)

	const workers = 10
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		rejected  int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := env.payouts.RequestPayout(context.Background(), RequestPayoutInput{
				VendorID:    vendor.ID,
				Amount:      dec("200"),
				Destination: bankDestination(),
			})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, ErrInsufficientBalance):
				rejected++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if succeeded != 4 || rejected != workers-4 {
		t.Fatalf("expected 4 successes, got %d (rejected %d)", succeeded, rejected)
	}
	balance, err := env.payouts.GetBalance(context.Background(), vendor.ID)
	if err != nil {
		t.Fatalf("get balance: %v", err)
	}
	if balance.Reserved.String() != "800.00" || balance.Withdrawable.String() != "120.00" {
		t.Fatalf("unexpected balance: %+v", balance)
	}
}

func TestPayoutLifecycleCompleted(t *testing.T) {
	env := setupServiceTest(t)
	vendor := env.fundedVendor(t)
	ctx := context.Background()
	payout := env.requestPayout(t, vendor.ID, "500")

	if _, err := env.payouts.MarkCompleted(ctx, payout.ID, time.Time{}, adminActor); !errors.Is(err, ErrInvalidStateTransition) {
		t.Fatalf("pending payout cannot complete, got %v", err)
	}
	if _, err := env.payouts.Submit(ctx, payout.ID, "  ", adminActor); !errors.Is(err, ErrPayoutTransferCodeEmpty) {
		t.Fatalf("expected ErrPayoutTransferCodeEmpty, got %v", err)
	}
	submitted, err := env.payouts.Submit(ctx, payout.ID, "TRF-001", adminActor)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if submitted.Status != constants.PayoutStatusProcessing || submitted.SubmittedAt == nil || submitted.TransferCode != "TRF-001" {
		t.Fatalf("unexpected submitted payout: %+v", submitted)
	}

	processedAt := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	completed, err := env.payouts.MarkCompleted(ctx, payout.ID, processedAt, PayoutActor{Type: constants.ActorTypeProcessor})
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if completed.ProcessedAt == nil || !completed.ProcessedAt.Equal(processedAt) {
		t.Fatalf("processed_at not stored: %+v", completed.ProcessedAt)
	}

	balance, err := env.payouts.GetBalance(ctx, vendor.ID)
	if err != nil {
		t.Fatalf("get balance: %v", err)
	}
	if balance.PaidOut.String() != "500.00" || balance.Reserved.String() != "0.00" || balance.Withdrawable.String() != "420.00" {
		t.Fatalf("unexpected balance after completion: %+v", balance)
	}

	events, err := env.payouts.ListEvents(payout.ID)
	if err != nil {
		t.Fatalf("list events: %v", err)
	}
	actions := make([]string, 0, len(events))
	for _, event := range events {
		actions = append(actions, event.Action)
	}
	want := []string{constants.PayoutActionRequest, constants.PayoutActionSubmit, constants.PayoutActionComplete}
	if len(actions) != len(want) {
		t.Fatalf("unexpected events: %v", actions)
	}
	for i := range want {
		if actions[i] != want[i] {
			t.Fatalf("unexpected events: %v", actions)
		}
	}
	if events[2].FromStatus != constants.PayoutStatusProcessing || events[2].ActorType != constants.ActorTypeProcessor {
		t.Fatalf("unexpected completion event: %+v", events[2])
	}
}

func TestPayoutFailReleasesAndRetryReserves(t *testing.T) {
	env := setupServiceTest(t)
	vendor := env.fundedVendor(t)
	ctx := context.Background()
	payout := env.requestPayout(t, vendor.ID, "600")
	if _, err := env.payouts.Submit(ctx, payout.ID, "TRF-9", adminActor); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := env.payouts.MarkFailed(ctx, payout.ID, "", adminActor); !errors.Is(err, ErrPayoutReasonRequired) {
		t.Fatalf("expected ErrPayoutReasonRequired, got %v", err)
	}
	failed, err := env.payouts.MarkFailed(ctx, payout.ID, "account closed", adminActor)
	if err != nil {
		t.Fatalf("fail: %v", err)
	}
	if failed.FailureReason == nil || *failed.FailureReason != "account closed" {
		t.Fatalf("failure reason not stored: %+v", failed)
	}
	assertDecimal(t, "withdrawable after failure", env.withdrawable(t, vendor.ID), "920")

	// 失败期间余额被新的申请占用，重试必须被拒绝
	other := env.requestPayout(t, vendor.ID, "400")
	if _, err := env.payouts.Retry(ctx, payout.ID, adminActor); !errors.Is(err, ErrInsufficientBalance) {
		t.Fatalf("retry must recheck balance, got %v", err)
	}
	reloaded, err := env.payouts.Get(payout.ID)
	if err != nil || reloaded.Status != constants.PayoutStatusFailed {
		t.Fatalf("rejected retry must keep failed status: %+v %v", reloaded, err)
	}

	if _, err := env.payouts.Cancel(ctx, other.ID, "changed mind", PayoutActor{Type: constants.ActorTypeVendor, ID: vendor.ID}); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	retried, err := env.payouts.Retry(ctx, payout.ID, adminActor)
	if err != nil {
		t.Fatalf("retry: %v", err)
	}
	if retried.Status != constants.PayoutStatusPending || retried.Attempts != 2 ||
		retried.FailureReason != nil || retried.TransferCode != "" {
		t.Fatalf("unexpected retried payout: %+v", retried)
	}
	assertDecimal(t, "withdrawable after retry", env.withdrawable(t, vendor.ID), "320")

	if _, err := env.payouts.Retry(ctx, payout.ID, adminActor); !errors.Is(err, ErrInvalidStateTransition) {
		t.Fatalf("pending payout cannot retry, got %v", err)
	}
}

func TestPayoutReverseStaysConsumedUntilAdjusted(t *testing.T) {
	env := setupServiceTest(t)
	vendor := env.fundedVendor(t)
	ctx := context.Background()
	payout := env.requestPayout(t, vendor.ID, "300")
	if _, err := env.payouts.Submit(ctx, payout.ID, "TRF-3", adminActor); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := env.payouts.MarkCompleted(ctx, payout.ID, time.Time{}, adminActor); err != nil {
		t.Fatalf("complete: %v", err)
	}
	if _, err := env.payouts.Reverse(ctx, payout.ID, " ", adminActor); !errors.Is(err, ErrPayoutReasonRequired) {
		t.Fatalf("expected ErrPayoutReasonRequired, got %v", err)
	}
	reversed, err := env.payouts.Reverse(ctx, payout.ID, "bank returned funds", adminActor)
	if err != nil {
		t.Fatalf("reverse: %v", err)
	}
	if reversed.Status != constants.PayoutStatusReversed || reversed.Note != "bank returned funds" {
		t.Fatalf("unexpected reversed payout: %+v", reversed)
	}
	assertDecimal(t, "withdrawable after reversal", env.withdrawable(t, vendor.ID), "620")

	payoutID := payout.ID
	if _, err := env.payouts.AdjustBalance(ctx, AdjustBalanceInput{
		VendorID: vendor.ID,
		Amount:   dec("300"),
		Reason:   "re-credit reversed payout",
		PayoutID: &payoutID,
		AdminID:  1,
	}); err != nil {
		t.Fatalf("adjust balance: %v", err)
	}
	assertDecimal(t, "withdrawable after adjustment", env.withdrawable(t, vendor.ID), "920")

	if _, err := env.payouts.Cancel(ctx, payout.ID, "", adminActor); !errors.Is(err, ErrInvalidStateTransition) {
		t.Fatalf("reversed payout is terminal, got %v", err)
	}
}

func TestAdjustBalanceValidation(t *testing.T) {
	env := setupServiceTest(t)
	vendor := env.fundedVendor(t)
	other := env.fundedVendor(t)
	ctx := context.Background()
	foreign := env.requestPayout(t, other.ID, "10")

	cases := []AdjustBalanceInput{
		{VendorID: vendor.ID, Amount: decimal.Zero, Reason: "noop"},
		{VendorID: vendor.ID, Amount: dec("1.005"), Reason: "sub cent"},
		{VendorID: vendor.ID, Amount: dec("5")},
	}
	for _, input := range cases {
		if _, err := env.payouts.AdjustBalance(ctx, input); !errors.Is(err, ErrAdjustmentInvalid) {
			t.Fatalf("expected ErrAdjustmentInvalid for %+v, got %v", input, err)
		}
	}
	if _, err := env.payouts.AdjustBalance(ctx, AdjustBalanceInput{
		VendorID: vendor.ID, Amount: dec("5"), Reason: "link", PayoutID: &foreign.ID,
	}); !errors.Is(err, ErrPayoutNotFound) {
		t.Fatalf("foreign payout link must fail, got %v", err)
	}

	if _, err := env.payouts.AdjustBalance(ctx, AdjustBalanceInput{
		VendorID: vendor.ID, Amount: dec("-1000"), Reason: "chargeback",
	}); err != nil {
		t.Fatalf("negative adjustment: %v", err)
	}
	assertDecimal(t, "withdrawable with debt", env.withdrawable(t, vendor.ID), "-80")
	adjustments, err := env.payouts.ListAdjustments(vendor.ID)
	if err != nil || len(adjustments) != 1 {
		t.Fatalf("expected one adjustment, got %d (%v)", len(adjustments), err)
	}
}

func TestPayoutVendorIsolation(t *testing.T) {
	env := setupServiceTest(t)
	owner := env.fundedVendor(t)
	intruder := env.fundedVendor(t)
	payout := env.requestPayout(t, owner.ID, "100")

	if _, err := env.payouts.GetForVendor(intruder.ID, payout.ID); !errors.Is(err, ErrPayoutNotFound) {
		t.Fatalf("expected ErrPayoutNotFound, got %v", err)
	}
	if _, err := env.payouts.CancelForVendor(context.Background(), intruder.ID, payout.ID, ""); !errors.Is(err, ErrPayoutNotFound) {
		t.Fatalf("expected ErrPayoutNotFound, got %v", err)
	}
	cancelled, err := env.payouts.CancelForVendor(context.Background(), owner.ID, payout.ID, "wrong account")
	if err != nil || cancelled.Status != constants.PayoutStatusCancelled {
		t.Fatalf("owner cancel failed: %+v %v", cancelled, err)
	}
	if _, _, err := env.payouts.List(repository.PayoutListFilter{Status: "paid"}); !errors.Is(err, ErrPayoutStatusInvalid) {
		t.Fatalf("expected ErrPayoutStatusInvalid, got %v", err)
	}
}

func TestRateChangeDoesNotRepriceSettledEarnings(t *testing.T) {
	env := setupServiceTest(t)
	ctx := context.Background()
	vendor := env.createVendor(t, "settled", "")
	order := env.createOrder(t, vendor.ID, 0, constants.OrderStatusShipped, "1000")
	if _, err := env.orders.UpdateStatus(order.ID, constants.OrderStatusDelivered); err != nil {
		t.Fatalf("deliver: %v", err)
	}

	payout := env.requestPayout(t, vendor.ID, "920")
	if _, err := env.payouts.Submit(ctx, payout.ID, "TRF-920", adminActor); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := env.payouts.MarkCompleted(ctx, payout.ID, time.Time{}, adminActor); err != nil {
		t.Fatalf("complete: %v", err)
	}

	if err := env.commission.SetVendorRate(vendor.ID, dec("0.5")); err != nil {
		t.Fatalf("set vendor rate: %v", err)
	}
	if err := env.commission.UpdateDefaultRate(dec("0.3")); err != nil {
		t.Fatalf("update default rate: %v", err)
	}

	balance, err := env.payouts.GetBalance(ctx, vendor.ID)
	if err != nil {
		t.Fatalf("get balance: %v", err)
	}
	if balance.PaidOut.String() != "920.00" || balance.Withdrawable.String() != "0.00" {
		t.Fatalf("settled earnings must not be repriced: %+v", balance)
	}

	// 新订单仍按当前费率计算
	env.createOrder(t, vendor.ID, 0, constants.OrderStatusPending, "100")
	summary, err := env.earnings.GetSummary(ctx, vendor.ID, EarningsWindow{})
	if err != nil {
		t.Fatalf("get summary: %v", err)
	}
	assertDecimal(t, "completed", summary.Completed, "920")
	assertDecimal(t, "pending", summary.Pending, "50")
}
