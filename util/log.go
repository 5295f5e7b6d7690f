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

package util

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
)

// Severity indicates the importance of an audit message
type Severity int

// Syslog-style severities used by LogAudit
const (
	EMERGENCY Severity = iota
	ALERT
	CRITICAL
	ERROR
	WARNING
	NOTICE
	INFO
	DEBUG
)

// LogContext provides the information needed to qualify log messages
// from an operation
type LogContext interface {
	AppName() string
	SessionID() string
	LogRootDir() string
}

// BasicLogContext is a minimal LogContext for operations with no better home
type BasicLogContext struct {
	sessionID string
}

// AppName returns the default application name
func (c *BasicLogContext) AppName() string {
	return "bf-scene-composer"
}

// SessionID returns a Session ID, creating one if needed
func (c *BasicLogContext) SessionID() string {
	if c.sessionID == "" {
		c.sessionID, _ = PsuUUID()
	}
	return c.sessionID
}

// LogRootDir returns an empty string
func (c *BasicLogContext) LogRootDir() string {
	return ""
}

// LogAuditInput holds the fields of an audit log entry
type LogAuditInput struct {
	Actor    string
	Action   string
	Actee    string
	Message  string
	Severity Severity
}

func writeLog(context LogContext, level string, message string) {
	line := fmt.Sprintf("[%s] %s <%s> %s", level, context.AppName(), context.SessionID(), message)
	log.Print(line)
	if rootDir := context.LogRootDir(); rootDir != "" {
		if file, err := os.OpenFile(filepath.Join(rootDir, context.AppName()+".log"),
			os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644); err == nil {
			fmt.Fprintln(file, line)
			file.Close()
		}
	}
}

// LogInfo logs an informational message
func LogInfo(context LogContext, message string) {
	writeLog(context, "INFO", message)
}

// LogAlert logs a message that needs operator attention
func LogAlert(context LogContext, message string) {
	writeLog(context, "ALERT", message)
}

// LogSimpleErr logs a message together with its underlying error and
// returns an error suitable for surfacing to the caller
func LogSimpleErr(context LogContext, message string, err error) error {
	if err != nil {
		writeLog(context, "ERROR", message+" "+err.Error())
		return fmt.Errorf("%s %v", message, err)
	}
	writeLog(context, "ERROR", message)
	return fmt.Errorf("%s", message)
}

// LogAudit logs a structured actor/action/actee audit entry
func LogAudit(context LogContext, input LogAuditInput) {
	writeLog(context, auditLevel(input.Severity),
		fmt.Sprintf("actor=%s action=%s actee=%s :: %s", input.Actor, input.Action, input.Actee, input.Message))
}

func auditLevel(severity Severity) string {
	switch severity {
	case EMERGENCY:
		return "EMERGENCY"
	case ALERT:
		return "ALERT"
	case CRITICAL:
		return "CRITICAL"
	case ERROR:
		return "ERROR"
	case WARNING:
		return "WARNING"
	case NOTICE:
		return "NOTICE"
	case DEBUG:
		return "DEBUG"
	default:
		return "INFO"
	}
}
