package repository

import (
	"time"

	"gorm.io/gorm"
)

// VendorListFilter 商户列表过滤条件
type VendorListFilter struct {
	Page     int
	PageSize int
	Status   string
	Keyword  string
}

// OrderListFilter 订单查询条件
type OrderListFilter struct {
	Page     int
	PageSize int
	VendorID uint
	Statuses []string
	// From/To 为左闭右开的创建时间窗口，nil 表示不限制
	From *time.Time
	To   *time.Time
	// WithItems 预加载订单项
	WithItems bool
}

// PayoutListFilter 提现单列表过滤条件
type PayoutListFilter struct {
	Page      int
	PageSize  int
	VendorID  uint
	Status    string
	Reference string
	From      *time.Time
	To        *time.Time
}

// ProductLowStockFilter 低库存商品查询条件
type ProductLowStockFilter struct {
	VendorID         uint
	DefaultThreshold int
	Limit            int
}

// AdminAuditLogListFilter 审计日志查询条件
type AdminAuditLogListFilter struct {
	Page            int
	PageSize        int
	OperatorAdminID uint
	Action          string
	TargetType      string
	TargetID        uint
	CreatedFrom     *time.Time
	CreatedTo       *time.Time
}

// applyPagination 按筛选条件分页，PageSize<=0 时返回全部（内部统计用）
func applyPagination(query *gorm.DB, page, pageSize int) *gorm.DB {
	if query == nil || pageSize <= 0 {
		return query
	}
	if page < 1 {
		page = 1
	}
	return query.Limit(pageSize).Offset((page - 1) * pageSize)
}
