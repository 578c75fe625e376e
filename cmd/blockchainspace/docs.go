package main

//go:generate swag init -g cmd/blockchainspace/docs.go -o docs

// @title           BlockchainSpace API
// @version         0.1.0
// @description     Chain metrics aggregation, price charts, sentiment and chat relay.
// @host            localhost:8080
// @BasePath        /
// @schemes         http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
