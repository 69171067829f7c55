// Package soundcloud is the caller-facing facade over package http. It keeps
// the application credentials and OAuth token, offers one method per HTTP
// verb, and merges the authentication parameters into each call.
//
// Basic Usage:
//
//	sc := soundcloud.New(clientID, clientSecret, callbackURI)
//	sc.SetAccessToken(token, "non-expiring", 0)
//
//	if err := sc.Put("/me", http.MustParams("user[description]", "field recordings")); err != nil {
//	    log.Fatal(err)
//	}
//	resp, err := sc.Request(ctx, http.Options{http.OptTimeout: 10 * time.Second})
//	if err != nil {
//	    log.Fatal(err) // no verb method was called
//	}
//	if err := resp.Err(); err != nil {
//	    log.Fatal(err) // the call never reached the server
//	}
//
// Authentication Parameters:
//
// client_id is sent with every call. client_secret and oauth_token are added
// once a token is held. Parameters set by the caller take precedence over
// the authentication parameters when names collide.
package soundcloud
