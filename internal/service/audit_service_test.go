package service

import (
	"testing"

	"github.com/vendora/internal/constants"
	"github.com/vendora/internal/models"
	"github.com/vendora/internal/repository"
)

func TestAuditServiceRecordAndList(t *testing.T) {
	env := setupServiceTest(t)
	audit := NewAuditService(repository.NewAdminAuditLogRepository(env.db))

	if err := audit.Record(AuditRecordInput{Action: constants.AuditActionBalanceAdjusted}); err != nil {
		t.Fatalf("record without operator: %v", err)
	}
	if err := audit.Record(AuditRecordInput{
		OperatorAdminID:  1,
		OperatorUsername: " finance ",
		Action:           constants.AuditActionVendorRateSet,
		TargetType:       constants.AuditTargetVendor,
		TargetID:         9,
		Detail:           models.JSON{"rate": "0.05"},
	}); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := audit.Record(AuditRecordInput{
		OperatorAdminID: 2,
		Action:          constants.AuditActionLowStockSettingSaved,
		TargetType:      constants.AuditTargetSetting,
	}); err != nil {
		t.Fatalf("record: %v", err)
	}

	all, total, err := audit.List(repository.AdminAuditLogListFilter{Page: 1, PageSize: 20})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 2 || len(all) != 2 {
		t.Fatalf("entries without operator must be skipped, got total=%d", total)
	}
	if all[0].Action != constants.AuditActionLowStockSettingSaved {
		t.Fatalf("newest entry first, got %s", all[0].Action)
	}

	vendorLogs, total, err := audit.List(repository.AdminAuditLogListFilter{TargetType: constants.AuditTargetVendor, TargetID: 9})
	if err != nil {
		t.Fatalf("list by target: %v", err)
	}
	if total != 1 || vendorLogs[0].OperatorUsername != "finance" || vendorLogs[0].DetailJSON["rate"] != "0.05" {
		t.Fatalf("unexpected vendor audit entries: %+v", vendorLogs)
	}
}
