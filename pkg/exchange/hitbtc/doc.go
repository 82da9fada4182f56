// Package hitbtc implements the Exchange interface for the HitBTC REST API.
// Private endpoints are signed with the HS256 scheme; public market data
// endpoints are sent unsigned.
//
// HitBTC API Documentation: https://api.hitbtc.com/api/2/explore/
package hitbtc
