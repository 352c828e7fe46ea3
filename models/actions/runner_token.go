// Copyright 2026 The Gitea Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package actions

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"sync"

	"code.gitea.io/dispatcher/modules/setting"
	"code.gitea.io/dispatcher/modules/util"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/crypto/pbkdf2"
)

// runnerTokenBytes is the entropy of a runner token, it is sent as twice as many hex characters
const runnerTokenBytes = 20

var (
	runnerTokenCache     *lru.Cache[string, int64]
	runnerTokenCacheOnce sync.Once
)

func getRunnerTokenCache() *lru.Cache[string, int64] {
	runnerTokenCacheOnce.Do(func() {
		runnerTokenCache, _ = lru.New[string, int64](max(setting.Actions.RunnerTokenCacheSize, 1))
	})
	return runnerTokenCache
}

// GenerateRunnerToken returns a fresh URL-safe runner token
func GenerateRunnerToken() (string, error) {
	return util.CryptoRandomHex(runnerTokenBytes)
}

// hashToken returns the hash of token salted with salt
func hashToken(token, salt string) string {
	tempHash := pbkdf2.Key([]byte(token), []byte(salt), 10000, 50, sha256.New)
	return hex.EncodeToString(tempHash)
}

// generateSaltedToken returns a new token with the values stored for it
func generateSaltedToken() (token, salt, hash, lastEight string, err error) {
	if salt, err = util.CryptoRandomHex(8); err != nil {
		return "", "", "", "", err
	}
	if token, err = GenerateRunnerToken(); err != nil {
		return "", "", "", "", err
	}
	return token, salt, hashToken(token, salt), token[len(token)-8:], nil
}

func (r *ActionRunner) tokenMatches(token string) bool {
	return subtle.ConstantTimeCompare([]byte(r.TokenHash), []byte(hashToken(token, r.TokenSalt))) == 1
}
