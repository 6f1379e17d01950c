/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package workspace

// ListContext is the ordered set of image keys of a work mode plus the selection.
type ListContext struct {
	keys     []string
	selected int
}

// SetKeys replaces the key list. The selection survives when its key is still present.
func (l *ListContext) SetKeys(keys []string) {
	prev, had := l.Selected()
	l.keys = append([]string(nil), keys...)
	l.selected = -1
	if had {
		l.Select(prev)
	}
}

func (l *ListContext) Keys() []string { return append([]string(nil), l.keys...) }

func (l *ListContext) Len() int { return len(l.keys) }

// Select marks key as selected and reports whether it exists.
func (l *ListContext) Select(key string) bool {
	for i, k := range l.keys {
		if k == key {
			l.selected = i
			return true
		}
	}
	return false
}

// SelectIndex selects the i-th key.
func (l *ListContext) SelectIndex(i int) bool {
	if i < 0 || i >= len(l.keys) {
		return false
	}
	l.selected = i
	return true
}

func (l *ListContext) Selected() (string, bool) {
	if l.selected < 0 || l.selected >= len(l.keys) {
		return "", false
	}
	return l.keys[l.selected], true
}

// SelectedIndex returns the selection index or -1.
func (l *ListContext) SelectedIndex() int {
	if _, ok := l.Selected(); !ok {
		return -1
	}
	return l.selected
}

// Next advances the selection, wrapping to the first key.
func (l *ListContext) Next() (string, bool) { return l.step(1) }

// Prev moves the selection back, wrapping to the last key.
func (l *ListContext) Prev() (string, bool) { return l.step(-1) }

func (l *ListContext) step(d int) (string, bool) {
	n := len(l.keys)
	if n == 0 {
		return "", false
	}
	if l.selected < 0 || l.selected >= n {
		if d > 0 {
			l.selected = 0
		} else {
			l.selected = n - 1
		}
	} else {
		l.selected = ((l.selected+d)%n + n) % n
	}
	return l.keys[l.selected], true
}
