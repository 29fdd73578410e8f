package checkpoints

import (
	"path/filepath"
	"testing"

	"github.com/humachine/humachine/model"
	"github.com/humachine/humachine/tensor"
)

func TestSnapshotSaveLoadRestore(t *testing.T) {
	m, err := model.Build(model.MLP, 4, 2, 9)
	if err != nil {
		t.Fatal(err)
	}

	checkpoint := Snapshot(m, model.MLP, 4, 2, "unit test")
	path := filepath.Join(t.TempDir(), "model.json")
	if err := checkpoint.Save(path); err != nil {
		t.Fatal(err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Arch != "mlp" || loaded.InputDim != 4 || loaded.NumClasses != 2 {
		t.Errorf("checkpoint header = %s/%d/%d", loaded.Arch, loaded.InputDim, loaded.NumClasses)
	}
	if loaded.Metadata.Version != formatVersion {
		t.Errorf("version = %q", loaded.Metadata.Version)
	}

	restored, err := loaded.Restore()
	if err != nil {
		t.Fatal(err)
	}

	// The restored model must produce identical outputs.
	x, _ := tensor.FromFloat32([]int{1, 4}, []float32{0.1, -0.2, 0.3, 0.4})
	want, err := m.Forward(x)
	if err != nil {
		t.Fatal(err)
	}
	got, err := restored.Forward(x)
	if err != nil {
		t.Fatal(err)
	}
	for i := range want.Float32s() {
		if want.Float32s()[i] != got.Float32s()[i] {
			t.Fatalf("output %d differs after restore: %f vs %f",
				i, want.Float32s()[i], got.Float32s()[i])
		}
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	m, err := model.Build(model.LogisticRegression, 2, 2, 1)
	if err != nil {
		t.Fatal(err)
	}

	checkpoint := Snapshot(m, model.LogisticRegression, 2, 2, "")
	original := checkpoint.Weights[0].Data[0]

	m.Params()[0].Data[0] += 10
	if checkpoint.Weights[0].Data[0] != original {
		t.Error("checkpoint shares backing storage with the live model")
	}
}

func TestRestoreRejectsCorruptShapes(t *testing.T) {
	m, err := model.Build(model.LogisticRegression, 3, 2, 1)
	if err != nil {
		t.Fatal(err)
	}

	checkpoint := Snapshot(m, model.LogisticRegression, 3, 2, "")
	checkpoint.Weights[0].Data = checkpoint.Weights[0].Data[:2]
	if _, err := checkpoint.Restore(); err == nil {
		t.Error("expected error for truncated weight data")
	}
}

func TestRestoreRejectsMissingParameter(t *testing.T) {
	m, err := model.Build(model.LogisticRegression, 3, 2, 1)
	if err != nil {
		t.Fatal(err)
	}

	checkpoint := Snapshot(m, model.LogisticRegression, 3, 2, "")
	checkpoint.Weights = checkpoint.Weights[:1]
	if _, err := checkpoint.Restore(); err == nil {
		t.Error("expected error for missing parameter")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Error("expected error for missing checkpoint file")
	}
}
