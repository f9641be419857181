// Package checkpoint implements the compressed, little-endian checkpoint
// format: a full ExperimentManager can be serialized to a single gzip
// stream and later reconstructed from it, without persisting the
// promoter/terminator/RNA/protein state, which is always rebuilt after
// load.
package checkpoint

import (
	"compress/gzip"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/ncruces/go-strftime"

	"github.com/qferro/aevol-optim/internal/aevolrand"
	"github.com/qferro/aevol-optim/internal/genome"
	"github.com/qferro/aevol-optim/internal/model"
	"github.com/qferro/aevol-optim/internal/organism"
	"github.com/qferro/aevol-optim/internal/phenotype"
	"github.com/qferro/aevol-optim/internal/population"
)

// Load does not restore SelectionPressure: the checkpoint format's core
// fields mirror the reference implementation's exactly, and selection
// pressure is not among them. Callers resuming a run must set
// ExperimentManager.SelectionPressure from their own configuration after a
// successful Load.

// Path returns the conventional backup file path for generation t under
// root, matching the reference implementation's "backup/backup_<t>.zae".
func Path(root string, t int) string {
	return filepath.Join(root, "backup", fmt.Sprintf("backup_%d.zae", t))
}

// Save writes mgr's full state to root's backup directory for the current
// generation. No partial checkpoints are tolerated: a write or close
// failure is returned and the caller should treat it as fatal.
func Save(mgr *population.ExperimentManager, root string) error {
	path := Path(root, mgr.Generation)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("checkpoint: open %s: %w", path, err)
	}

	gz := gzip.NewWriter(f)
	if err := writeManifestAndBody(gz, mgr); err != nil {
		gz.Close()
		f.Close()
		return fmt.Errorf("checkpoint: write %s: %w", path, err)
	}
	if err := gz.Close(); err != nil {
		f.Close()
		return fmt.Errorf("checkpoint: close gzip stream for %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("checkpoint: close %s: %w", path, err)
	}
	return nil
}

// buildManifest assembles the checkpoint header from mgr's current state,
// stamping it with the current schema/codec pair and a formatted save
// timestamp.
func buildManifest(mgr *population.ExperimentManager, at time.Time) model.RunManifest {
	return model.RunManifest{
		VersionedRecord: model.NewVersionedRecord(),
		RunID:           mgr.RunID,
		Generation:      mgr.Generation,
		GridWidth:       mgr.Pop.Width,
		GridHeight:      mgr.Pop.Height,
		NbIndivs:        mgr.Pop.N(),
		BackupStep:      mgr.BackupStep,
		MutationRate:    mgr.MutationRate,
		Target:          mgr.Env.Target,
		SavedAtRFC:      strftime.Format("%Y-%m-%dT%H:%M:%S", at.UTC()),
	}
}

func writeManifestAndBody(w io.Writer, mgr *population.ExperimentManager) error {
	manifest := buildManifest(mgr, time.Now())

	if err := writeInt32(w, int32(manifest.SchemaVersion)); err != nil {
		return err
	}
	if err := writeInt32(w, int32(manifest.CodecVersion)); err != nil {
		return err
	}
	if err := writeInt32(w, int32(manifest.Generation)); err != nil {
		return err
	}
	if err := writeInt32(w, int32(manifest.GridHeight)); err != nil {
		return err
	}
	if err := writeInt32(w, int32(manifest.GridWidth)); err != nil {
		return err
	}
	if err := writeInt32(w, int32(manifest.NbIndivs)); err != nil {
		return err
	}
	if err := writeInt32(w, int32(manifest.BackupStep)); err != nil {
		return err
	}
	if err := writeFloat64(w, manifest.MutationRate); err != nil {
		return err
	}
	for _, v := range manifest.Target {
		if err := writeFloat64(w, v); err != nil {
			return err
		}
	}
	for _, o := range mgr.Pop.Prev {
		if err := writeOrganism(w, o); err != nil {
			return err
		}
	}
	if _, err := w.Write(mgr.Streamer.StateBlob()); err != nil {
		return err
	}
	if err := writeString(w, manifest.RunID); err != nil {
		return err
	}
	return writeString(w, manifest.SavedAtRFC)
}

func writeString(w io.Writer, s string) error {
	if err := writeInt32(w, int32(len(s))); err != nil {
		return err
	}
	_, err := io.WriteString(w, s)
	return err
}

func readString(r io.Reader) (string, error) {
	n, err := readInt32(r)
	if err != nil {
		return "", err
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}

func writeOrganism(w io.Writer, o *organism.Organism) error {
	bits := o.Genome.Bits()
	if err := writeInt32(w, int32(len(bits))); err != nil {
		return err
	}
	if _, err := w.Write(bits); err != nil {
		return err
	}
	if err := writeFloat64(w, o.Metaerror); err != nil {
		return err
	}
	return writeFloat64(w, o.Fitness)
}

// Load reconstructs an ExperimentManager from the checkpoint file for
// generation t under root. The promoter/terminator index of every loaded
// organism is rebuilt via a full scan, since it is never persisted; its
// RNA/protein lists and phenotype stay empty. RunGeneration does not
// re-express an organism it reuses as an un-mutated child; only the fresh
// organisms it builds for mutated children are expressed.
func Load(root string, t int) (*population.ExperimentManager, error) {
	path := Path(root, t)
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("checkpoint: open %s: %w", path, err)
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("checkpoint: open gzip stream for %s: %w", path, err)
	}
	defer gz.Close()

	mgr, err := readManifestAndBody(gz)
	if err != nil {
		return nil, fmt.Errorf("checkpoint: read %s: %w", path, err)
	}
	return mgr, nil
}

func readManifestAndBody(r io.Reader) (*population.ExperimentManager, error) {
	schemaVersion, err := readInt32(r)
	if err != nil {
		return nil, err
	}
	codecVersion, err := readInt32(r)
	if err != nil {
		return nil, err
	}
	if int(schemaVersion) != model.CurrentSchemaVersion || int(codecVersion) != model.CurrentCodecVersion {
		return nil, fmt.Errorf("checkpoint: unsupported schema/codec version %d/%d, want %d/%d",
			schemaVersion, codecVersion, model.CurrentSchemaVersion, model.CurrentCodecVersion)
	}

	generation, err := readInt32(r)
	if err != nil {
		return nil, err
	}
	height, err := readInt32(r)
	if err != nil {
		return nil, err
	}
	width, err := readInt32(r)
	if err != nil {
		return nil, err
	}
	nbIndivs, err := readInt32(r)
	if err != nil {
		return nil, err
	}
	backupStep, err := readInt32(r)
	if err != nil {
		return nil, err
	}
	mutationRate, err := readFloat64(r)
	if err != nil {
		return nil, err
	}

	env := &phenotype.Environment{}
	for i := 0; i < model.PhenotypeSamples; i++ {
		v, err := readFloat64(r)
		if err != nil {
			return nil, err
		}
		env.Target[i] = v
	}
	for i := 0; i < model.PhenotypeSamples-1; i++ {
		env.GeometricArea += absf(env.Target[i]) + absf(env.Target[i+1])
	}
	env.GeometricArea /= 600.0

	if int(nbIndivs) != int(width)*int(height) {
		return nil, fmt.Errorf("nb_indivs %d does not match grid %dx%d", nbIndivs, width, height)
	}

	pop := population.New(int(width), int(height))
	for i := 0; i < int(nbIndivs); i++ {
		o, err := readOrganism(r)
		if err != nil {
			return nil, fmt.Errorf("organism %d: %w", i, err)
		}
		pop.Prev[i] = o
	}

	blob := make([]byte, 8)
	if _, err := io.ReadFull(r, blob); err != nil {
		return nil, fmt.Errorf("prng state: %w", err)
	}
	streamer, err := aevolrand.FromState(int(width), int(height), blob)
	if err != nil {
		return nil, err
	}
	runID, err := readString(r)
	if err != nil {
		return nil, fmt.Errorf("run id: %w", err)
	}
	savedAtRFC, err := readString(r)
	if err != nil {
		return nil, fmt.Errorf("saved-at timestamp: %w", err)
	}

	mgr := &population.ExperimentManager{
		RunID:        runID,
		Generation:   int(generation),
		BackupStep:   int(backupStep),
		MutationRate: mutationRate,
		SavedAtRFC:   savedAtRFC,
		Pop:          pop,
		Env:          env,
		Streamer:     streamer,
	}
	mgr.BestIndiv = mgr.Pop.Prev[0]
	for _, o := range mgr.Pop.Prev[1:] {
		if o.Fitness > mgr.BestIndiv.Fitness {
			mgr.BestIndiv = o
		}
	}
	return mgr, nil
}

func readOrganism(r io.Reader) (*organism.Organism, error) {
	length, err := readInt32(r)
	if err != nil {
		return nil, err
	}
	bits := make([]uint8, length)
	if _, err := io.ReadFull(r, bits); err != nil {
		return nil, err
	}
	g := genome.New(bits)
	g.FullScan()

	metaerror, err := readFloat64(r)
	if err != nil {
		return nil, err
	}
	fit, err := readFloat64(r)
	if err != nil {
		return nil, err
	}

	o := organism.New(g)
	o.Metaerror = metaerror
	o.Fitness = fit
	return o, nil
}

func absf(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

func writeInt32(w io.Writer, v int32) error {
	return binary.Write(w, binary.LittleEndian, v)
}

func readInt32(r io.Reader) (int32, error) {
	var v int32
	err := binary.Read(r, binary.LittleEndian, &v)
	return v, err
}

func writeFloat64(w io.Writer, v float64) error {
	return binary.Write(w, binary.LittleEndian, v)
}

func readFloat64(r io.Reader) (float64, error) {
	var v float64
	err := binary.Read(r, binary.LittleEndian, &v)
	return v, err
}
