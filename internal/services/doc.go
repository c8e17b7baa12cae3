// Package services talks to the remote catalog: the IGDB v4 API and the Twitch token endpoint.
//
// # IGDB
//
// [IGDBClient] POSTs Apicalypse queries (see [Query]) with the Client-ID header and a bearer token.
// Requests are throttled with a [rate.Limiter] because IGDB allows four requests per second.
// Credentials are fixed at construction; re-authentication means building a new client.
//
// [Pager] walks an endpoint in pages of [PageSize] items, handing each non-empty page to a callback
// and stopping at the first empty page. No total count is consulted.
//
// # Twitch
//
// [TwitchAuthenticator] exchanges a client id and secret for an app access token using the
// OAuth2 client credentials grant.
//
// # Error Handling
//
// Failed requests return an [*APIError] carrying the HTTP status and the IGDB message:
//   - [shared.ErrAuthFailed] : HTTP 401, the token is missing, expired or revoked
//   - [shared.ErrFetchFailed] : any other status, transport or decoding failure
//
// Neither is retried here; callers decide whether to re-authenticate.
package services
