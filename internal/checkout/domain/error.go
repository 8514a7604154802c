package domain

import "errors"

var (
	ErrPlanNotFound          = errors.New("plan not found")
	ErrOrderNotFound         = errors.New("order not found")
	ErrOrderAlreadyProcessed = errors.New("order already processed")
)
