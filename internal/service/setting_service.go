package service

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/vendora/internal/constants"
	"github.com/vendora/internal/models"
	"github.com/vendora/internal/repository"

	"github.com/shopspring/decimal"
)

const (
	settingFieldDefaultRate      = "default_rate"
	settingFieldDefaultThreshold = "default_threshold"
	settingFieldCooldownHours    = "cooldown_hours"
)

// SettingService 设置业务服务
type SettingService struct {
	repo repository.SettingRepository
}

// NewSettingService 创建设置服务
func NewSettingService(repo repository.SettingRepository) *SettingService {
	return &SettingService{repo: repo}
}

// GetByKey 获取设置
func (s *SettingService) GetByKey(key string) (models.JSON, error) {
	setting, err := s.repo.GetByKey(key)
	if err != nil {
		return nil, err
	}
	if setting == nil {
		return nil, nil
	}
	return setting.ValueJSON, nil
}

// Update 设置值
func (s *SettingService) Update(key string, value map[string]interface{}) (models.JSON, error) {
	setting, err := s.repo.Upsert(key, models.JSON(value))
	if err != nil {
		return nil, err
	}
	return setting.ValueJSON, nil
}

// GetCommissionDefaultRate 读取平台默认佣金率，未设置时返回 fallback
func (s *SettingService) GetCommissionDefaultRate(fallback decimal.Decimal) (decimal.Decimal, error) {
	if s == nil {
		return fallback, nil
	}
	value, err := s.GetByKey(constants.SettingKeyCommissionConfig)
	if err != nil {
		return fallback, err
	}
	raw, ok := value[settingFieldDefaultRate]
	if !ok || raw == nil {
		return fallback, nil
	}
	rate, err := parseSettingDecimal(raw)
	if err != nil {
		return fallback, err
	}
	if !IsValidRate(rate) {
		return fallback, ErrRateInvalid
	}
	return rate, nil
}

// UpdateCommissionDefaultRate 写入平台默认佣金率
func (s *SettingService) UpdateCommissionDefaultRate(rate decimal.Decimal) error {
	if !IsValidRate(rate) {
		return ErrRateInvalid
	}
	_, err := s.Update(constants.SettingKeyCommissionConfig, map[string]interface{}{
		settingFieldDefaultRate: rate.String(),
	})
	return err
}

// LowStockSetting 低库存运行时设置
type LowStockSetting struct {
	DefaultThreshold int `json:"default_threshold"`
	CooldownHours    int `json:"cooldown_hours"`
}

// GetLowStockSetting 读取低库存设置，缺失字段使用 defaults
func (s *SettingService) GetLowStockSetting(defaults LowStockSetting) (LowStockSetting, error) {
	if s == nil {
		return defaults, nil
	}
	value, err := s.GetByKey(constants.SettingKeyLowStockConfig)
	if err != nil {
		return defaults, err
	}
	result := defaults
	if raw, ok := value[settingFieldDefaultThreshold]; ok {
		if threshold, err := parseSettingInt(raw); err == nil && threshold >= 0 {
			result.DefaultThreshold = threshold
		}
	}
	if raw, ok := value[settingFieldCooldownHours]; ok {
		if hours, err := parseSettingInt(raw); err == nil && hours > 0 {
			result.CooldownHours = hours
		}
	}
	return result, nil
}

// UpdateLowStockSetting 写入低库存设置
func (s *SettingService) UpdateLowStockSetting(setting LowStockSetting) (LowStockSetting, error) {
	if setting.DefaultThreshold < 0 || setting.CooldownHours <= 0 {
		return setting, fmt.Errorf("invalid low stock setting: %+v", setting)
	}
	_, err := s.Update(constants.SettingKeyLowStockConfig, map[string]interface{}{
		settingFieldDefaultThreshold: setting.DefaultThreshold,
		settingFieldCooldownHours:    setting.CooldownHours,
	})
	return setting, err
}

func parseSettingInt(value interface{}) (int, error) {
	switch v := value.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		return int(v), nil
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return int(i), nil
		}
		return 0, fmt.Errorf("invalid json number")
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return 0, fmt.Errorf("empty string")
		}
		return strconv.Atoi(trimmed)
	default:
		return 0, fmt.Errorf("unsupported type %T", value)
	}
}

func parseSettingDecimal(value interface{}) (decimal.Decimal, error) {
	switch v := value.(type) {
	case string:
		return decimal.NewFromString(strings.TrimSpace(v))
	case float64:
		return decimal.NewFromFloat(v), nil
	case int:
		return decimal.NewFromInt(int64(v)), nil
	case int64:
		return decimal.NewFromInt(v), nil
	case json.Number:
		return decimal.NewFromString(v.String())
	default:
		return decimal.Zero, fmt.Errorf("unsupported type %T", value)
	}
}
