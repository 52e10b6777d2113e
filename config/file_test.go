// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package config

import (
	"errors"
	"io"
	"io/fs"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
)

type fsFunc func(string) (fs.File, error)

func (f fsFunc) Open(path string) (fs.File, error) {
	return f(path)
}

func TestFileReader_Read(t *testing.T) {
	t.Run("will open the file lazily", func(t *testing.T) {
		var opened int
		fsys := fsFunc(func(path string) (fs.File, error) {
			opened++
			return fstest.MapFS{"valuetypes.yaml": {Data: []byte("trace: true")}}.Open(path)
		})

		r := NewFileReader(fsys, "valuetypes.yaml")
		if !assert.Zero(t, opened) {
			return
		}

		b, err := io.ReadAll(r)
		if !assert.NoError(t, err) {
			return
		}
		if !assert.Equal(t, "trace: true", string(b)) {
			return
		}
		if !assert.Equal(t, 1, opened) {
			return
		}
		if !assert.NoError(t, r.Close()) {
			return
		}
	})

	t.Run("will return an error", func(t *testing.T) {
		t.Run("if the fs.FS fails to open the file", func(t *testing.T) {
			openErr := errors.New("failed to open")
			fsys := fsFunc(func(string) (fs.File, error) {
				return nil, openErr
			})

			r := NewFileReader(fsys, "valuetypes.yaml")
			_, err := io.ReadAll(r)
			if !assert.ErrorIs(t, err, openErr) {
				return
			}

			_, err = r.Read(make([]byte, 1))
			if !assert.ErrorIs(t, err, openErr) {
				return
			}
		})
	})
}

func TestFileReader_Close(t *testing.T) {
	t.Run("will not return an error", func(t *testing.T) {
		t.Run("if Close is called before the underlying file has been opened", func(t *testing.T) {
			fsys := fsFunc(func(string) (fs.File, error) {
				return nil, nil
			})

			r := NewFileReader(fsys, "valuetypes.yaml")
			err := r.Close()
			if !assert.Nil(t, err) {
				return
			}
		})
	})
}
