package i18n

var messages = map[string]map[string]string{
	LocaleZH: {
		"error.bad_request":                   "请求参数错误",
		"error.unauthorized":                  "未登录或登录已过期",
		"error.forbidden":                     "无权访问",
		"error.not_found":                     "资源不存在",
		"error.internal":                      "服务器内部错误",
		"error.too_many_requests":             "请求过于频繁，请稍后再试",
		"error.login_invalid":                 "账号或密码错误",
		"error.account_disabled":              "账号已停用",
		"error.vendor_not_found":              "商户不存在",
		"error.category_not_found":            "分类不存在",
		"error.product_not_found":             "商品不存在",
		"error.order_not_found":               "订单不存在",
		"error.order_status_invalid":          "订单状态不允许此操作",
		"error.order_total_locked":            "订单已签收，金额不可修改",
		"error.order_total_invalid":           "订单金额不能为负数",
		"error.order_items_invalid":           "订单商品无效",
		"error.commission_rate_invalid":       "佣金率必须在 0% 到 100% 之间",
		"error.payout_not_found":              "提现单不存在",
		"error.payout_insufficient_balance":   "可提现余额不足",
		"error.payout_invalid_transition":     "当前提现状态不允许此操作",
		"error.payout_amount_invalid":         "提现金额无效",
		"error.payout_fee_invalid":            "手续费无效",
		"error.payout_below_minimum":          "提现金额低于最低限额",
		"error.payout_destination_invalid":    "收款信息不完整",
		"error.payout_transfer_code_required": "缺少转账受理编码",
		"error.payout_reason_required":        "请填写原因",
		"error.payout_busy":                   "该商户有正在处理的提现操作，请稍后重试",
		"error.payout_status_invalid":         "提现状态筛选无效",
		"error.adjustment_invalid":            "余额调整无效",
		"error.queue_unavailable":             "任务队列不可用",
		"error.auth_header_missing":           "缺少 Authorization 头",
		"error.auth_header_invalid":           "Authorization 头格式错误",
		"error.token_invalid":                 "登录凭证无效",
		"error.token_revoked":                 "登录凭证已失效，请重新登录",
		"error.jwt_secret_missing":            "服务端未配置签名密钥",
		"error.rate_limited":                  "请求过于频繁，请 %d 秒后再试",
		"error.rate_limit_unavailable":        "限流服务不可用",
		"error.admin_id_invalid":              "管理员 ID 无效",
		"error.admin_id_type_invalid":         "管理员 ID 类型错误",
		"error.vendor_id_invalid":             "商户 ID 无效",
		"error.vendor_id_type_invalid":        "商户 ID 类型错误",
		"error.password_too_short":            "密码至少 8 位",
		"error.low_stock_setting_invalid":     "低库存设置无效",
		"error.role_invalid":                  "角色无效",
		"error.email_invalid":                 "邮箱地址无效",
		"error.email_recipient_rejected":      "收件人被邮件服务器拒绝",
		"error.email_service_not_configured":  "邮件服务未启用或未配置",
		"error.email_send_failed":             "邮件发送失败",
		"email.payout_status.subject":         "提现单 %s 状态更新：%s",
		"email.payout_status.body":            "您好 %s，\n\n您的提现单 %s（金额 %s，手续费 %s，实际到账 %s）状态已更新为：%s。\n%s\n",
		"email.payout_status.failure":         "失败原因：%s",
		"email.low_stock.subject":             "低库存提醒：%s",
		"email.low_stock.body":                "您好 %s，\n\n商品「%s」（SKU %s）当前库存为 %d，已不高于预警阈值 %d，请及时补货。\n",
		"payout.status.pending":               "待处理",
		"payout.status.processing":            "处理中",
		"payout.status.completed":             "已完成",
		"payout.status.failed":                "失败",
		"payout.status.reversed":              "已冲正",
		"payout.status.cancelled":             "已取消",
	},
	LocaleTW: {
		"error.bad_request":                 "請求參數錯誤",
		"error.unauthorized":                "未登入或登入已過期",
		"error.forbidden":                   "無權存取",
		"error.not_found":                   "資源不存在",
		"error.internal":                    "伺服器內部錯誤",
		"error.login_invalid":               "帳號或密碼錯誤",
		"error.token_invalid":               "登入憑證無效",
		"error.rate_limited":                "請求過於頻繁，請 %d 秒後再試",
		"error.payout_insufficient_balance": "可提現餘額不足",
		"error.payout_invalid_transition":   "目前提現狀態不允許此操作",
		"payout.status.pending":             "待處理",
		"payout.status.processing":          "處理中",
		"payout.status.completed":           "已完成",
		"payout.status.failed":              "失敗",
		"payout.status.reversed":            "已冲正",
		"payout.status.cancelled":           "已取消",
	},
	LocaleEN: {
		"error.bad_request":                   "Invalid request",
		"error.unauthorized":                  "Not signed in or session expired",
		"error.forbidden":                     "Access denied",
		"error.not_found":                     "Resource not found",
		"error.internal":                      "Internal server error",
		"error.too_many_requests":             "Too many requests, please retry later",
		"error.login_invalid":                 "Invalid account or password",
		"error.account_disabled":              "Account disabled",
		"error.vendor_not_found":              "Vendor not found",
		"error.category_not_found":            "Category not found",
		"error.product_not_found":             "Product not found",
		"error.order_not_found":               "Order not found",
		"error.order_status_invalid":          "Order status does not allow this change",
		"error.order_total_locked":            "Delivered orders cannot change their total",
		"error.order_total_invalid":           "Order total must not be negative",
		"error.order_items_invalid":           "Order items are invalid",
		"error.commission_rate_invalid":       "Commission rate must be between 0% and 100%",
		"error.payout_not_found":              "Payout not found",
		"error.payout_insufficient_balance":   "Insufficient withdrawable balance",
		"error.payout_invalid_transition":     "The payout's current status does not allow this action",
		"error.payout_amount_invalid":         "Invalid payout amount",
		"error.payout_fee_invalid":            "Invalid payout fee",
		"error.payout_below_minimum":          "Payout amount is below the minimum",
		"error.payout_destination_invalid":    "Payout destination is incomplete",
		"error.payout_transfer_code_required": "Transfer code required",
		"error.payout_reason_required":        "Reason required",
		"error.payout_busy":                   "Another payout operation is in progress for this vendor",
		"error.payout_status_invalid":         "Unknown payout status filter",
		"error.adjustment_invalid":            "Invalid balance adjustment",
		"error.queue_unavailable":             "Task queue unavailable",
		"error.auth_header_missing":           "Missing Authorization header",
		"error.auth_header_invalid":           "Malformed Authorization header",
		"error.token_invalid":                 "Invalid token",
		"error.token_revoked":                 "Token revoked, please sign in again",
		"error.jwt_secret_missing":            "Signing secret is not configured",
		"error.rate_limited":                  "Too many requests, retry in %d seconds",
		"error.rate_limit_unavailable":        "Rate limiter unavailable",
		"error.admin_id_invalid":              "Invalid admin id",
		"error.admin_id_type_invalid":         "Invalid admin id type",
		"error.vendor_id_invalid":             "Invalid vendor id",
		"error.vendor_id_type_invalid":        "Invalid vendor id type",
		"error.password_too_short":            "Password must be at least 8 characters",
		"error.low_stock_setting_invalid":     "Invalid low stock setting",
		"error.role_invalid":                  "Invalid role",
		"error.email_invalid":                 "Invalid email address",
		"error.email_recipient_rejected":      "Recipient rejected by the mail server",
		"error.email_service_not_configured":  "Email service is disabled or not configured",
		"error.email_send_failed":             "Failed to send email",
		"email.payout_status.subject":         "Payout %s is now %s",
		"email.payout_status.body":            "Hello %s,\n\nYour payout %s (amount %s, fee %s, net %s) is now: %s.\n%s\n",
		"email.payout_status.failure":         "Failure reason: %s",
		"email.low_stock.subject":             "Low stock: %s",
		"email.low_stock.body":                "Hello %s,\n\nProduct \"%s\" (SKU %s) is down to %d units, at or below its threshold of %d. Please restock.\n",
		"payout.status.pending":               "pending",
		"payout.status.processing":            "processing",
		"payout.status.completed":             "completed",
		"payout.status.failed":                "failed",
		"payout.status.reversed":              "reversed",
		"payout.status.cancelled":             "cancelled",
	},
}
