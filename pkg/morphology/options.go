package morphology

import (
	"fmt"
	"io"
	"runtime"

	"github.com/sirupsen/logrus"
)

// Default block sizes in voxels along (x, y, z). Line filters get a longer
// x axis: extra depth along the contiguous axis is cheap for the separable
// pass, and fewer blocks means fewer halo re-reads.
var (
	DefaultBlockSize     = [3]int{256, 256, 256}
	DefaultLineBlockSize = [3]int{512, 256, 256}
)

// Options tunes resource usage of one engine call. The zero value selects
// the defaults; block size and workers are performance knobs only and never
// change the output.
type Options struct {
	// BlockSize is the output block extent along (x, y, z). Zero components
	// select the default for the structuring-element kind.
	BlockSize [3]int

	// Workers bounds the number of tiles processed concurrently.
	// 0 selects runtime.NumCPU(); negative values are rejected.
	Workers int

	// Logger receives per-call progress at debug level. Nil disables
	// logging.
	Logger *logrus.Logger
}

// resolve validates the options and fills in defaults.
func (o Options) resolve(def [3]int) (block [3]int, workers int, log *logrus.Logger, err error) {
	block = def
	for i := 0; i < 3; i++ {
		if o.BlockSize[i] < 0 {
			return block, 0, nil, fmt.Errorf("%w: %v", ErrBadBlockSize, o.BlockSize)
		}
		if o.BlockSize[i] > 0 {
			block[i] = o.BlockSize[i]
		}
	}
	if o.Workers < 0 {
		return block, 0, nil, fmt.Errorf("%w: %d", ErrBadWorkers, o.Workers)
	}
	workers = o.Workers
	if workers == 0 {
		workers = runtime.NumCPU()
	}
	if workers < 1 {
		return block, 0, nil, ErrNoWorkers
	}
	log = o.Logger
	if log == nil {
		log = logrus.New()
		log.SetOutput(io.Discard)
	}
	return block, workers, log, nil
}
