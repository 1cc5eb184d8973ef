// Package probe reads the playback duration of an MP4 file from its movie
// header without touching the media samples.
package probe

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"time"

	mp4 "github.com/abema/go-mp4"

	"github.com/oukeidos/subburn/internal/apperrors"
)

// MediaDuration is the total playback length of a video, at millisecond
// granularity.
type MediaDuration time.Duration

// Milliseconds returns the duration as whole milliseconds.
func (d MediaDuration) Milliseconds() int64 {
	return time.Duration(d).Milliseconds()
}

// Seconds returns the duration as whole seconds, truncated.
func (d MediaDuration) Seconds() int64 {
	return int64(time.Duration(d) / time.Second)
}

func (d MediaDuration) String() string {
	return time.Duration(d).String()
}

var (
	pathFtyp = mp4.BoxPath{mp4.BoxTypeFtyp()}
	pathMvhd = mp4.BoxPath{mp4.BoxTypeMoov(), mp4.BoxTypeMvhd()}
)

// Duration opens path read-only and returns the duration recorded in its
// moov/mvhd box.
func Duration(path string) (MediaDuration, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, apperrors.New(apperrors.KindNotFound, fmt.Sprintf("Cannot open video file: %s", path), err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return 0, apperrors.NotFound(err)
	}
	if info.IsDir() {
		return 0, apperrors.New(apperrors.KindNotFound, fmt.Sprintf("Not a file: %s", path), nil)
	}

	ftyp, err := mp4.ExtractBox(f, nil, pathFtyp)
	if err != nil {
		return 0, apperrors.MalformedContainer(fmt.Errorf("read ftyp: %w", err))
	}
	if len(ftyp) == 0 {
		return 0, apperrors.MalformedContainer(errors.New("no ftyp box; not an MP4 file"))
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return 0, apperrors.MalformedContainer(err)
	}
	boxes, err := mp4.ExtractBoxWithPayload(f, nil, pathMvhd)
	if err != nil {
		return 0, apperrors.MalformedContainer(fmt.Errorf("read moov/mvhd: %w", err))
	}
	if len(boxes) == 0 {
		return 0, apperrors.Unsupported(errors.New("no moov/mvhd box"))
	}
	mvhd, ok := boxes[0].Payload.(*mp4.Mvhd)
	if !ok {
		return 0, apperrors.MalformedContainer(fmt.Errorf("unexpected mvhd payload %T", boxes[0].Payload))
	}
	return fromMvhd(mvhd)
}

func fromMvhd(mvhd *mp4.Mvhd) (MediaDuration, error) {
	if mvhd.Timescale == 0 {
		return 0, apperrors.Unsupported(errors.New("mvhd timescale is zero"))
	}
	units := uint64(mvhd.DurationV0)
	unknown := uint64(math.MaxUint32)
	if mvhd.GetVersion() == 1 {
		units = mvhd.DurationV1
		unknown = math.MaxUint64
	}
	switch units {
	case 0:
		return 0, apperrors.Unsupported(errors.New("mvhd duration is zero"))
	case unknown:
		return 0, apperrors.Unsupported(errors.New("mvhd duration is marked unknown"))
	}
	d, ok := unitsToDuration(units, uint64(mvhd.Timescale))
	if !ok {
		return 0, apperrors.Unsupported(fmt.Errorf("mvhd duration %d/%d is out of range", units, mvhd.Timescale))
	}
	return d, nil
}

// maxMillis is the longest span a time.Duration holds, in milliseconds.
const maxMillis = uint64(math.MaxInt64 / int64(time.Millisecond))

// unitsToDuration converts timescale units to milliseconds. It reports
// false when the result does not fit in a time.Duration.
func unitsToDuration(units, timescale uint64) (MediaDuration, bool) {
	whole := units / timescale
	rem := units % timescale
	if whole > maxMillis/1000 {
		return 0, false
	}
	ms := whole*1000 + rem*1000/timescale
	if ms > maxMillis {
		return 0, false
	}
	return MediaDuration(time.Duration(ms) * time.Millisecond), true
}
