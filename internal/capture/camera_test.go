package capture

import (
	"errors"
	"testing"

	"gocv.io/x/gocv"
)

func TestNewCamera(t *testing.T) {
	tests := []struct {
		name       string
		width      int
		height     int
		wantWidth  int
		wantHeight int
	}{
		{name: "explicit size", width: 1280, height: 720, wantWidth: 1280, wantHeight: 720},
		{name: "zero size falls back", width: 0, height: 0, wantWidth: DefaultWidth, wantHeight: DefaultHeight},
		{name: "negative width falls back", width: -1, height: 240, wantWidth: DefaultWidth, wantHeight: 240},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cam := NewCamera(0, tt.width, tt.height)

			impl, ok := cam.(*cameraImpl)
			if !ok {
				t.Fatalf("NewCamera returned %T", cam)
			}
			if impl.width != tt.wantWidth || impl.height != tt.wantHeight {
				t.Errorf("size = %dx%d, want %dx%d", impl.width, impl.height, tt.wantWidth, tt.wantHeight)
			}

			if cam.IsOpen() {
				t.Error("camera should not be running initially")
			}
		})
	}
}

func TestCamera_OpenClose_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	cam := NewCamera(0, DefaultWidth, DefaultHeight)

	err := cam.Open()
	if err != nil {
		t.Skipf("skipping test - camera not available: %v", err)
	}

	if !cam.IsOpen() {
		t.Error("IsOpen() should return true after Open()")
	}

	mat, err := cam.ReadFrame()
	if err != nil {
		t.Errorf("ReadFrame() failed: %v", err)
	} else {
		if mat.Empty() {
			t.Error("ReadFrame() returned empty mat")
		} else if mat.Cols() != DefaultWidth || mat.Rows() != DefaultHeight {
			t.Logf("Frame dimensions: %dx%d (camera may not support 640x480)", mat.Cols(), mat.Rows())
		}
		mat.Close()
	}

	if err := cam.Close(); err != nil {
		t.Errorf("Close() failed: %v", err)
	}

	if cam.IsOpen() {
		t.Error("IsOpen() should return false after Close()")
	}
}

func TestCamera_ReadFrame_NotOpened(t *testing.T) {
	cam := NewCamera(0, 0, 0)

	_, err := cam.ReadFrame()
	if !errors.Is(err, ErrCameraNotOpen) {
		t.Errorf("ReadFrame() error = %v, want ErrCameraNotOpen", err)
	}
}

func TestCamera_Close_NotOpened(t *testing.T) {
	cam := NewCamera(0, 0, 0)

	if err := cam.Close(); err != nil {
		t.Errorf("Close() on not opened camera should return nil, got: %v", err)
	}
}

func TestMirror(t *testing.T) {
	frame := gocv.NewMatWithSize(1, 2, gocv.MatTypeCV8U)
	defer frame.Close()
	frame.SetUCharAt(0, 0, 10)
	frame.SetUCharAt(0, 1, 200)

	Mirror(&frame)

	if got := frame.GetUCharAt(0, 0); got != 200 {
		t.Errorf("left pixel = %d, want 200", got)
	}
	if got := frame.GetUCharAt(0, 1); got != 10 {
		t.Errorf("right pixel = %d, want 10", got)
	}

	// Nil and empty frames are ignored.
	Mirror(nil)
	empty := gocv.NewMat()
	defer empty.Close()
	Mirror(&empty)
}
