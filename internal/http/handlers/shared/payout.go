package shared

import (
	"strings"

	"github.com/vendora/internal/http/response"
	"github.com/vendora/internal/repository"
	"github.com/vendora/internal/service"

	"github.com/gin-gonic/gin"
)

// PayoutListQuery 读取提现单列表的过滤参数，vendorID 为 0 表示不限商户
func PayoutListQuery(c *gin.Context, vendorID uint) (repository.PayoutListFilter, bool) {
	page, pageSize := PageQuery(c)
	from, err := ParseTimeNullable(c.Query("from"))
	if err != nil {
		RespondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return repository.PayoutListFilter{}, false
	}
	to, err := ParseTimeNullable(c.Query("to"))
	if err != nil {
		RespondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return repository.PayoutListFilter{}, false
	}
	return repository.PayoutListFilter{
		Page:      page,
		PageSize:  pageSize,
		VendorID:  vendorID,
		Status:    strings.ToLower(strings.TrimSpace(c.Query("status"))),
		Reference: strings.TrimSpace(c.Query("reference")),
		From:      from,
		To:        to,
	}, true
}

// RespondPayoutList 查询并返回分页的提现单列表
func RespondPayoutList(c *gin.Context, payouts *service.PayoutService, filter repository.PayoutListFilter) {
	items, total, err := payouts.List(filter)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	response.SuccessWithPage(c, items, BuildPagination(filter.Page, filter.PageSize, total))
}
