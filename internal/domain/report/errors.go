package report

import "errors"

var (
	ErrReportNotFound  = errors.New("report not found")
	ErrInvalidSchedule = errors.New("invalid report schedule")
	ErrInvalidPeriod   = errors.New("invalid export period")
)
