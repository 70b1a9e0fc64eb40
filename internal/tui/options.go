package tui

import "github.com/hylla/sysla/internal/domain"

type Option func(*Model)

func WithDefaultFilter(filter domain.Filter) Option {
	return func(m *Model) {
		switch filter {
		case domain.FilterAll, domain.FilterActive, domain.FilterCompleted:
			m.filter = filter
		}
	}
}

func WithShowCounts(show bool) Option {
	return func(m *Model) {
		m.showCounts = show
	}
}
