package core

import (
	"context"

	yf "github.com/hyunsikhwang/marketpulse/api/yahoo"
	m "github.com/hyunsikhwang/marketpulse/models"
)

type ServiceContext struct {
	Context     context.Context
	YahooClient yf.YahooClient
	Registry    []m.IndexEntry
	Cache       *TableCache
}
