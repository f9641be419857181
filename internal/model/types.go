package model

// VersionedRecord is embedded by every record persisted to a checkpoint or
// run-history store, so a reader can detect a codec it no longer knows how
// to decode instead of misinterpreting bytes.
type VersionedRecord struct {
	SchemaVersion int
	CodecVersion  int
}

const (
	CurrentSchemaVersion = 1
	CurrentCodecVersion  = 1
)

// NewVersionedRecord stamps the current schema/codec pair.
func NewVersionedRecord() VersionedRecord {
	return VersionedRecord{SchemaVersion: CurrentSchemaVersion, CodecVersion: CurrentCodecVersion}
}

// EditKind names one of the four DNA edit operations a mutation plan may
// contain. Applying an edit is described in the mutation contract; the
// concrete applier lives in internal/mutation.
type EditKind uint8

const (
	EditSubstitution EditKind = iota
	EditInsertion
	EditDeletion
	EditInversion
)

// Edit is one entry of a mutation plan: a single DNA edit at a genome
// position, along with any bits it introduces (insertion) or the span it
// inverts (inversion, expressed as a bit count). A deletion removes one bit;
// mutation.Apply does not read Span for a deletion.
type Edit struct {
	Kind     EditKind
	Position int
	Bits     []uint8
	Span     int
}

// RunManifest is the header of a checkpoint: everything needed to rebuild
// an ExperimentManager before any per-organism payload is read.
type RunManifest struct {
	VersionedRecord
	RunID        string
	Generation   int
	GridWidth    int
	GridHeight   int
	NbIndivs     int
	BackupStep   int
	MutationRate float64
	Target       [PhenotypeSamples]float64
	SavedAtRFC   string
}

// RNA is a transcribed segment: from a promoter's position plus PromSize to
// a downstream terminator plus 10, wrapping the circular genome.
type RNA struct {
	Begin      int
	End        int
	Length     int
	Expression float64
	Coding     bool
	GeneStarts []int
}

// Protein is a translated open reading frame delimited by a Shine-Dalgarno
// start candidate and a stop codon.
type Protein struct {
	ProteinStart  int
	ProteinEnd    int
	ProteinLength int
	Expression    float64
	M             float64
	W             float64
	H             float64
	IsInit        bool
	IsFunctional  bool
}
