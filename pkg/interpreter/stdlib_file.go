package interpreter

import (
	"io"
	"os"

	"github.com/arjpeg/helix/pkg/runtime"
)

type fileMode uint8

const (
	modeClosed fileMode = iota
	modeRead
	modeWrite
	modeAppend
)

var fileModes = map[string]fileMode{
	"r": modeRead,
	"w": modeWrite,
	"a": modeAppend,
}

type fileHandle struct {
	path string
	mode fileMode
	file *os.File
}

// newFileHandle returns the dict script code sees for file(path). Nothing
// touches the filesystem until open is called.
func newFileHandle(path string) *runtime.DictValue {
	h := &fileHandle{path: path}
	dict := runtime.NewDict()
	dict.Set("path", runtime.String(path))
	dict.Set("open", runtime.NewBuiltin("open", 1, func(_ *runtime.NativeCall, args []runtime.Value) (runtime.Value, error) {
		mode, ok := args[0].(runtime.StringValue)
		if !ok {
			return nil, runtime.TypeErrorf("open() expects a mode string, got %s", args[0].Kind())
		}
		return runtime.Null, h.open(mode.Val)
	}))
	dict.Set("read", runtime.NewBuiltin("read", 0, func(*runtime.NativeCall, []runtime.Value) (runtime.Value, error) {
		return h.read()
	}))
	dict.Set("write", runtime.NewBuiltin("write", 1, func(_ *runtime.NativeCall, args []runtime.Value) (runtime.Value, error) {
		text, ok := args[0].(runtime.StringValue)
		if !ok {
			return nil, runtime.TypeErrorf("write() expects a string, got %s", args[0].Kind())
		}
		return runtime.Null, h.write(text.Val)
	}))
	dict.Set("close", runtime.NewBuiltin("close", 0, func(*runtime.NativeCall, []runtime.Value) (runtime.Value, error) {
		return runtime.Null, h.close()
	}))
	return dict
}

func (h *fileHandle) open(mode string) error {
	m, ok := fileModes[mode]
	if !ok {
		return runtime.Errorf(runtime.ResourceError, "invalid file mode %q (expected \"r\", \"w\" or \"a\")", mode)
	}
	if h.file != nil {
		if err := h.close(); err != nil {
			return err
		}
	}
	flags := os.O_RDONLY
	switch m {
	case modeWrite:
		flags = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	case modeAppend:
		flags = os.O_WRONLY | os.O_CREATE | os.O_APPEND
	}
	f, err := os.OpenFile(h.path, flags, 0o644)
	if err != nil {
		return runtime.WrapResource(err, "cannot open '%s'", h.path)
	}
	h.file, h.mode = f, m
	return nil
}

func (h *fileHandle) read() (runtime.Value, error) {
	switch h.mode {
	case modeClosed:
		return nil, runtime.Errorf(runtime.ResourceError, "file '%s' is not open", h.path)
	case modeWrite, modeAppend:
		return nil, runtime.Errorf(runtime.ResourceError, "file '%s' is not open for reading", h.path)
	}
	data, err := io.ReadAll(h.file)
	if err != nil {
		return nil, runtime.WrapResource(err, "cannot read '%s'", h.path)
	}
	return runtime.String(string(data)), nil
}

func (h *fileHandle) write(text string) error {
	switch h.mode {
	case modeClosed:
		return runtime.Errorf(runtime.ResourceError, "file '%s' is not open", h.path)
	case modeRead:
		return runtime.Errorf(runtime.ResourceError, "cannot write to '%s' in read mode", h.path)
	}
	if _, err := io.WriteString(h.file, text); err != nil {
		return runtime.WrapResource(err, "cannot write '%s'", h.path)
	}
	return nil
}

// close is a no-op on a handle that is not open.
func (h *fileHandle) close() error {
	if h.file == nil {
		return nil
	}
	err := h.file.Close()
	h.file, h.mode = nil, modeClosed
	if err != nil {
		return runtime.WrapResource(err, "cannot close '%s'", h.path)
	}
	return nil
}
