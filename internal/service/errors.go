package service

import "errors"

var (
	ErrInvalidPlan      = errors.New("invalid monthly plan")
	ErrInvalidWorkDays  = errors.New("invalid work days")
	ErrInvalidDateRange = errors.New("invalid date range")
	ErrInvalidMode      = errors.New("invalid aggregation mode")
)
