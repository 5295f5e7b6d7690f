// Copyright 2018, RadiantBlue Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package signing exchanges scene asset references for retrievable ones
// by requesting a shared-access token from a signing service and
// appending it to each asset URL. Tokens are cached per collection until
// shortly before expiry.
package signing

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/venicegeo/bf-scene-composer/model"
	"github.com/venicegeo/bf-scene-composer/util"
)

var httpRequestKnownJSONWithObject = util.ReqByObjJSON

// tokenExpirySlack is subtracted from the advertised expiry so a token is
// never used in the middle of going stale
const tokenExpirySlack = 2 * time.Minute

// Context is the context for a signing operation
type Context struct {
	SigningURL string
	sessionID  string

	mutex  sync.Mutex
	tokens map[string]cachedToken
}

// AppName returns the application name
func (c *Context) AppName() string {
	return "bf-scene-composer"
}

// SessionID returns a Session ID, creating one if needed
func (c *Context) SessionID() string {
	if c.sessionID == "" {
		c.sessionID, _ = util.PsuUUID()
	}
	return c.sessionID
}

// LogRootDir returns an empty string
func (c *Context) LogRootDir() string {
	return ""
}

type cachedToken struct {
	token     string
	expiresAt time.Time
}

type tokenResponse struct {
	Token  string `json:"token"`
	Expiry string `json:"msft:expiry"`
}

// SignScene implements the catalog.AssetSigner interface; the returned
// scene is a copy with signed asset references, the input is untouched
func (c *Context) SignScene(scene model.Scene) (model.Scene, error) {
	token, err := c.collectionToken(scene.Collection)
	if err != nil {
		return scene, err
	}

	signed := scene
	signed.Assets = make(map[string]model.AssetRef, len(scene.Assets))
	for band, ref := range scene.Assets {
		separator := "?"
		if strings.Contains(ref.HREF, "?") {
			separator = "&"
		}
		signed.Assets[band] = model.AssetRef{HREF: ref.HREF + separator + token, Type: ref.Type}
	}
	return signed, nil
}

func (c *Context) collectionToken(collection string) (string, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if cached, ok := c.tokens[collection]; ok && time.Now().Before(cached.expiresAt) {
		return cached.token, nil
	}

	tokenURL := fmt.Sprintf("%s/token/%s", strings.TrimSuffix(c.SigningURL, "/"), collection)
	util.LogAudit(c, util.LogAuditInput{
		Actor: "anon user", Action: "GET", Actee: tokenURL, Message: "Requesting asset signing token", Severity: util.INFO,
	})

	var response tokenResponse
	if _, err := httpRequestKnownJSONWithObject("GET", tokenURL, "", nil, &response); err != nil {
		return "", util.LogSimpleErr(c, fmt.Sprintf("Failed to get signing token for collection %s.", collection), err)
	}
	if response.Token == "" {
		return "", util.LogSimpleErr(c, fmt.Sprintf("Signing service returned an empty token for collection %s.", collection), nil)
	}

	expiresAt := time.Now().Add(30 * time.Minute)
	if expiry, err := model.ParseSceneTime(response.Expiry); err == nil {
		expiresAt = expiry.Add(-tokenExpirySlack)
	}

	if c.tokens == nil {
		c.tokens = map[string]cachedToken{}
	}
	c.tokens[collection] = cachedToken{token: response.Token, expiresAt: expiresAt}
	return response.Token, nil
}
