package waveio

import (
	"fmt"
	"os"

	dspresample "github.com/cwbudde/algo-dsp/dsp/resample"
	"github.com/cwbudde/wav"
	"github.com/go-audio/audio"
)

// LoadWAV reads an arbitrary WAV/RIFF file, downmixes it to mono, and
// resamples it to CanonicalSampleRate when the source rate differs,
// before applying the same baseline/amplitude normalization LoadRawPCM
// applies to raw PCM recordings.
func LoadWAV(path string) ([]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("waveio: %s: %w", path, err)
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("waveio: %s: not a valid wav file", path)
	}
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("waveio: %s: %w", path, err)
	}
	if buf == nil || buf.Format == nil || buf.Format.NumChannels < 1 {
		return nil, fmt.Errorf("waveio: %s: empty or invalid wav buffer", path)
	}

	ch := buf.Format.NumChannels
	frames := len(buf.Data) / ch
	mono := make([]float64, frames)
	for i := 0; i < frames; i++ {
		var sum float64
		for c := 0; c < ch; c++ {
			sum += float64(buf.Data[i*ch+c])
		}
		mono[i] = sum / float64(ch)
	}

	mono, err = resampleTo(mono, buf.Format.SampleRate, CanonicalSampleRate)
	if err != nil {
		return nil, fmt.Errorf("waveio: %s: resample: %w", path, err)
	}

	subtractBaseline(mono)
	rescaleAmplitude(mono)
	return mono, nil
}

func resampleTo(in []float64, fromRate, toRate int) ([]float64, error) {
	if fromRate == toRate {
		return in, nil
	}
	r, err := dspresample.NewForRates(
		float64(fromRate),
		float64(toRate),
		dspresample.WithQuality(dspresample.QualityBest),
	)
	if err != nil {
		return nil, err
	}
	return r.Process(in), nil
}

// DumpWAV writes a mono float64 signal as a 16-bit PCM WAV file, for the
// --dump-energy debug path. Samples are handed to the encoder as float32
// values with no rescaling.
func DumpWAV(path string, signal []float64, sampleRate int) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("waveio: dump %s: %w", path, err)
	}
	defer f.Close()

	enc := wav.NewEncoder(f, sampleRate, 16, 1, 1)
	defer enc.Close()

	data := make([]float32, len(signal))
	for i, s := range signal {
		data[i] = float32(s)
	}

	buf := &audio.Float32Buffer{
		Format: &audio.Format{
			SampleRate:  sampleRate,
			NumChannels: 1,
		},
		Data:           data,
		SourceBitDepth: 16,
	}
	return enc.Write(buf)
}
