package service

import (
	"github.com/vendora/internal/constants"
)

// orderStatusTransitions 订单状态流转表：当前状态 -> 允许的目标状态
var orderStatusTransitions = map[string][]string{
	constants.OrderStatusPending:    {constants.OrderStatusConfirmed, constants.OrderStatusCancelled},
	constants.OrderStatusConfirmed:  {constants.OrderStatusProcessing, constants.OrderStatusCancelled},
	constants.OrderStatusProcessing: {constants.OrderStatusShipped, constants.OrderStatusCancelled},
	constants.OrderStatusShipped:    {constants.OrderStatusDelivered, constants.OrderStatusCancelled},
}

// isOrderStatusTerminal delivered / cancelled 不再流转
func isOrderStatusTerminal(status string) bool {
	return status == constants.OrderStatusDelivered || status == constants.OrderStatusCancelled
}

// isKnownOrderStatus 是否为已定义的订单状态
func isKnownOrderStatus(status string) bool {
	return constants.IsOrderStatus(status)
}

// canTransitionOrderStatus 判断 from -> to 是否合法
func canTransitionOrderStatus(from, to string) bool {
	for _, next := range orderStatusTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
