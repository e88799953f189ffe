package imaging

import (
	"os"
	"sync"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"
)

// FileResult is the outcome of encoding one file of a batch
type FileResult struct {
	Path  string
	Image Image
	Err   error
}

// EncodeFiles encodes every path on a pool of workers. Results keep the
// order of paths.
func (e *Encoder) EncodeFiles(paths []string, workers int) ([]FileResult, error) {
	if workers <= 0 {
		workers = 1
	}
	pool, err := ants.NewPool(workers)
	if err != nil {
		return nil, err
	}
	defer pool.Release()

	results := make([]FileResult, len(paths))
	var wg sync.WaitGroup
	for i, p := range paths {
		i, p := i, p
		results[i].Path = p
		wg.Add(1)
		err := pool.Submit(func() {
			defer wg.Done()
			results[i].Image, results[i].Err = e.EncodeFile(p)
		})
		if err != nil {
			wg.Done()
			results[i].Err = err
		}
	}
	wg.Wait()
	return results, nil
}

// EncodeFile reads and encodes a single image file.
func (e *Encoder) EncodeFile(path string) (Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return Image{}, err
	}
	defer f.Close()

	img, err := e.Encode(f)
	if err != nil {
		zap.L().Debug("image encode failed", zap.String("path", path), zap.Error(err))
		return Image{}, err
	}
	return img, nil
}
