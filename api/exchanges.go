// Copyright (c) 2025 BVK Chaitanya

package api

type ExchangeData struct {
	Name      string `json:"name"`
	Connected bool   `json:"connected"`
}

type ExchangeListResponse struct {
	Exchanges []*ExchangeData `json:"exchanges"`
}

type ConnectExchangeRequest struct {
	Exchange  string `json:"exchange"`
	APIKey    string `json:"api_key"`
	APISecret string `json:"api_secret"`
}

type ConnectExchangeResponse struct {
	Detail    string `json:"detail"`
	Connected bool   `json:"connected"`
}
