// Copyright 2026 The Gitea Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package healthcheck

import (
	"context"
	"net/http"
	"os"
	"time"

	"code.gitea.io/dispatcher/models/db"
	"code.gitea.io/dispatcher/modules/json"
	"code.gitea.io/dispatcher/modules/log"
	"code.gitea.io/dispatcher/modules/setting"
)

type status string

const (
	// pass healthy, fail unhealthy, warn healthy with some concerns
	//
	// ref https://datatracker.ietf.org/doc/html/draft-inadarei-api-health-check#section-3.1
	pass status = "pass"
	fail status = "fail"
	warn status = "warn"
)

func (s status) ToHTTPStatus() int {
	if s == pass || s == warn {
		return http.StatusOK
	}
	return http.StatusFailedDependency
}

type checks map[string][]componentStatus

// response is the data returned by the health endpoint, which will be marshaled to JSON format
type response struct {
	Status      status `json:"status"`
	Description string `json:"description"`
	Version     string `json:"version,omitempty"`
	Checks      checks `json:"checks,omitempty"`
}

// componentStatus presents one status of a single check object
type componentStatus struct {
	Status status `json:"status"`
	Time   string `json:"time"`             // the date-time, in ISO8601 format
	Output string `json:"output,omitempty"` // this field SHOULD be omitted for "pass" state.
}

// Check is the health check API handler
func Check(w http.ResponseWriter, r *http.Request) {
	rsp := response{
		Status:      pass,
		Description: "dispatcher",
		Version:     setting.AppVer,
		Checks:      make(checks),
	}

	if s := checkDatabase(r.Context(), rsp.Checks); s != pass {
		rsp.Status = fail
	}

	data, _ := json.MarshalIndent(rsp, "", "  ")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(rsp.Status.ToHTTPStatus())
	_, _ = w.Write(data)
}

// checkDatabase pings the database, for SQLite the file must exist too
func checkDatabase(ctx context.Context, checks checks) status {
	st := componentStatus{Status: pass, Time: getCheckTime()}
	if err := db.GetEngine(ctx).Ping(); err != nil {
		st.Status = fail
		st.Output = "database ping failed"
		log.Error("database ping failed with error: %v", err)
	} else if setting.Database.Type.IsSQLite3() {
		if _, err := os.Stat(setting.Database.Path); err != nil {
			st.Status = fail
			st.Output = "database file is missing"
			log.Error("SQLite3 file exists check failed with error: %v", err)
		}
	}

	checks["database:ping"] = []componentStatus{st}
	return st.Status
}

func getCheckTime() string {
	return time.Now().UTC().Format(time.RFC3339)
}
