//go:build !ios && !android && (amd64 || arm64)

package spgo

import (
	"fmt"
	"time"

	"github.com/obinnaokechukwu/spgo/internal/gateway"
	"github.com/obinnaokechukwu/spgo/internal/native"
)

// Image is an artist portrait, album cover or other image. Images load
// asynchronously: Done is closed and the callback passed at creation runs
// once the data has arrived.
type Image struct {
	async

	// The load callback registration, removed once it has fired.
	callback uintptr
	userdata uintptr
}

// Image starts loading the image a spotify:image: URI refers to.
func (s *Session) Image(uri string, cb func(*Image)) (*Image, error) {
	link, err := s.Link(uri)
	if err != nil {
		return nil, err
	}
	defer link.Close()
	if err := link.expect(LinkTypeImage); err != nil {
		return nil, err
	}
	return s.newImage(func() uintptr {
		return s.sp.ImageCreateFromLink(s.ptr, link.ptr())
	}, cb)
}

// imageByID creates an image from the 20 byte image ID returned by id, which
// points into memory owned by another object. A null ID means there is no
// image, reported as nil, nil.
func (s *Session) imageByID(id func() uintptr, cb func(*Image)) (*Image, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}
	return locked(s.gw, func() (*Image, error) {
		imageID := id()
		if imageID == 0 {
			return nil, nil
		}
		return s.newImage(func() uintptr {
			return s.sp.ImageCreate(s.ptr, imageID)
		}, cb)
	})
}

func (s *Session) newImage(create func() uintptr, cb func(*Image)) (*Image, error) {
	img := &Image{async: newAsync(s)}
	_, err := s.bridge.Register(native.Request{
		Completion: img.done,
		Create: func(callback, userdata uintptr) (uintptr, error) {
			ptr := create()
			if ptr == 0 {
				return 0, nil
			}
			if err := native.NewError(s.sp.ImageAddLoadCallback(ptr, callback, userdata), "sp_image_add_load_callback"); err != nil {
				_ = s.sp.ImageRelease(ptr)
				return 0, err
			}
			img.callback, img.userdata = callback, userdata
			return ptr, nil
		},
		Attach: img.attach(s.kinds.image),
		Ready: func(ptr uintptr) bool {
			return s.sp.ImageIsLoaded(ptr)
		},
		OnComplete: func(ptr uintptr) {
			err := native.NewError(s.sp.ImageRemoveLoadCallback(ptr, img.callback, img.userdata), "sp_image_remove_load_callback")
			if err != nil {
				s.log.Warn("removing image load callback failed", "image", img.h, "error", err)
			}
			if img.finish() && cb != nil {
				cb(img)
			}
		},
	})
	if err != nil {
		return nil, err
	}
	return img, nil
}

// IsLoaded reports whether the image data has arrived.
func (i *Image) IsLoaded() bool {
	return i.s.sp.ImageIsLoaded(i.ptr())
}

// Err returns the image's error state. It is nil while loading.
func (i *Image) Err() error {
	return native.LoadError(i.s.sp.ImageError(i.ptr()), "sp_image_error")
}

// Load blocks until the image is loaded or reports an error. See
// Artist.Load for timeout.
func (i *Image) Load(timeout time.Duration) error {
	return i.s.load(i, timeout)
}

// Format returns the encoding of Data.
func (i *Image) Format() ImageFormat {
	return ImageFormat(i.s.sp.ImageFormat(i.ptr()))
}

// Data returns a copy of the encoded image, or nil if not loaded.
func (i *Image) Data() []byte {
	return gateway.Do(i.s.gw, func() []byte {
		var size uintptr
		ptr := i.s.sp.ImageData(i.ptr(), &size)
		return native.GoBytes(ptr, int(size))
	})
}

func (i *Image) String() string {
	return fmt.Sprintf("Image(%s)", i.h)
}

// Close releases the image. If it is still loading, the release happens
// when loading completes and the load callback is not run.
func (i *Image) Close() error {
	return i.close()
}
