package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const serviceDocs = `# BlockchainSpace API

Chain metrics aggregated from DeFiLlama and CoinGecko, plus price charts,
community sentiment and a blockchain assistant.

## Dashboard routes

- GET  /api/blockchain-data        stored chain aggregate ([] when empty)
- POST /api/save-blockchain-data   replace the stored aggregate (admin)
- GET  /api/chains                 aggregate built from live sources
- POST /api/graph                  {"identifier": "<gecko id>"} -> {"chart": [...]}
- GET  /api/sentiment?symbol=BTC   normalized community sentiment
- POST /api/sentiment/batch        {"items": [{"key","symbol","priceChange24h"}]}
- POST /api/chat                   {"message": "..."} -> {"message","timestamp"}

Errors on these routes are {"error": "..."}.

## Service routes

- GET  /api/v1/chains              search, speed, performance, sort_by, sort_order, count
- GET  /api/v1/chains/:geckoId
- POST /api/v1/chains/refresh      (admin)
- GET  /api/v1/sync-state
- GET  /api/v1/system-settings/switches
- PUT  /api/v1/system-settings/switches/:name   {"enabled": bool} (admin)

Responses use {"code","message","data","meta"}.

## Auth

Admin routes take "Authorization: Bearer <token>" when auth.jwt_secret is
set. Issue a token with "blockchainspace token".

## Operations

- GET /healthz
- GET /readyz
- GET /metrics
- GET /swagger/index.html
`

func RegisterDocs(r *gin.Engine) {
	r.GET("/docs", func(c *gin.Context) {
		c.Header("Content-Type", "text/markdown; charset=utf-8")
		c.String(http.StatusOK, serviceDocs)
	})
}
