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

package process

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/venicegeo/bf-scene-composer/util"
)

// processLog records every decision of one AOI run in a human-readable
// file next to the outputs, mirroring each line into the application
// log. The file is truncated at the start of each run.
type processLog struct {
	context util.LogContext
	mutex   sync.Mutex
	file    *os.File
}

func newProcessLog(context util.LogContext, outputDir string, index int) (*processLog, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, err
	}
	file, err := os.Create(filepath.Join(outputDir, fmt.Sprintf("process_log%d.txt", index)))
	if err != nil {
		return nil, err
	}
	return &processLog{context: context, file: file}, nil
}

func (l *processLog) Printf(format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)
	util.LogInfo(l.context, message)

	l.mutex.Lock()
	defer l.mutex.Unlock()
	fmt.Fprintln(l.file, message)
}

// Errorf records a failure in the run log and returns it as an error so
// callers can both log and propagate in one step.
func (l *processLog) Errorf(format string, args ...interface{}) error {
	message := fmt.Sprintf(format, args...)
	l.mutex.Lock()
	fmt.Fprintln(l.file, message)
	l.mutex.Unlock()
	return util.LogSimpleErr(l.context, message, nil)
}

func (l *processLog) Close() error {
	return l.file.Close()
}
