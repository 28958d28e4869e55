package common

// AccessTokenHeaderName is the HTTP header carrying the access token on
// authenticated requests.
const AccessTokenHeaderName = "Authorization"

// ShareIDParam is the query-string parameter that addresses a published
// snapshot in share links.
const ShareIDParam = "shareId"
