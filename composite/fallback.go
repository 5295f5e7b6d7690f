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

package composite

import "errors"

// FirstSuccessful tries each strategy in order and returns the first
// result produced without error. ErrEmptyResult from one strategy is a
// signal to move on to the next. If every strategy fails, the collected
// errors are joined.
func FirstSuccessful[T any](strategies ...func() (T, error)) (T, error) {
	var zero T
	var errs []error
	for _, strategy := range strategies {
		result, err := strategy()
		if err == nil {
			return result, nil
		}
		errs = append(errs, err)
	}
	if len(errs) == 0 {
		return zero, ErrEmptyResult
	}
	return zero, errors.Join(errs...)
}
