package match

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tirepoint/garage-docs/constants"
	"github.com/tirepoint/garage-docs/internal/entity"
)

type fakeLookup struct {
	byPlate map[string]*entity.Record
	byPhone map[string]*entity.Record
	err     error
}

func (f *fakeLookup) FindByPlate(_ context.Context, plate string) (*entity.Record, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.byPlate[plate], nil
}

func (f *fakeLookup) FindByPhone(_ context.Context, phone string) (*entity.Record, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.byPhone[phone], nil
}

func vehicleRecord(plate string, updated time.Time) *entity.Record {
	return &entity.Record{
		ID:        uuid.New(),
		Kind:      entity.RecordVehicle,
		Fields:    map[constants.FieldKind]string{constants.FieldPlateNumber: plate},
		UpdatedAt: updated,
	}
}

func customerRecord(phone string, updated time.Time) *entity.Record {
	return &entity.Record{
		ID:        uuid.New(),
		Kind:      entity.RecordCustomer,
		Fields:    map[constants.FieldKind]string{constants.FieldCustomerPhone: phone},
		UpdatedAt: updated,
	}
}

func TestPlateHitScoresFull(t *testing.T) {
	rec := vehicleRecord("ABC1234", time.Now())
	m := NewMatcher(&fakeLookup{byPlate: map[string]*entity.Record{"ABC1234": rec}}, nil)

	// raw plate is normalized before lookup
	cands, err := m.FindCandidates(context.Background(), "abc-1234", "")
	require.NoError(t, err)
	require.Len(t, cands, 1)
	assert.Equal(t, rec.ID, cands[0].RecordID)
	assert.Equal(t, entity.BasisPlate, cands[0].Basis)
	assert.Equal(t, 1.0, cands[0].Score)
}

func TestPhoneHitScoresLower(t *testing.T) {
	rec := customerRecord("0712345678", time.Now())
	m := NewMatcher(&fakeLookup{byPhone: map[string]*entity.Record{"0712345678": rec}}, nil)

	cands, err := m.FindCandidates(context.Background(), "", "0712 345 678")
	require.NoError(t, err)
	require.Len(t, cands, 1)
	assert.Equal(t, entity.BasisPhone, cands[0].Basis)
	assert.Equal(t, 0.8, cands[0].Score)
}

func TestBothBasesOnSameRecordCapAtPlateScore(t *testing.T) {
	rec := vehicleRecord("ABC1234", time.Now())
	m := NewMatcher(&fakeLookup{
		byPlate: map[string]*entity.Record{"ABC1234": rec},
		byPhone: map[string]*entity.Record{"0712345678": rec},
	}, nil)

	cands, err := m.FindCandidates(context.Background(), "ABC-1234", "0712345678")
	require.NoError(t, err)
	require.Len(t, cands, 1)
	assert.Equal(t, entity.BasisPlate, cands[0].Basis)
	assert.Equal(t, 1.0, cands[0].Score)
}

func TestDifferentRecordsRankedPlateFirst(t *testing.T) {
	veh := vehicleRecord("ABC1234", time.Now().Add(-time.Hour))
	cust := customerRecord("0712345678", time.Now())
	m := NewMatcher(&fakeLookup{
		byPlate: map[string]*entity.Record{"ABC1234": veh},
		byPhone: map[string]*entity.Record{"0712345678": cust},
	}, nil)

	cands, err := m.FindCandidates(context.Background(), "ABC-1234", "0712345678")
	require.NoError(t, err)
	require.Len(t, cands, 2)
	assert.Equal(t, veh.ID, cands[0].RecordID)
	assert.Equal(t, 1.0, cands[0].Score)
	assert.Equal(t, cust.ID, cands[1].RecordID)
	assert.Equal(t, 0.8, cands[1].Score)
}

func TestNoIdentityFieldsYieldsNoCandidatesWithoutError(t *testing.T) {
	m := NewMatcher(&fakeLookup{}, nil)

	cands, err := m.MatchFields(context.Background(), entity.FieldSet{
		constants.FieldAmount: {Value: "50000.00"},
	})
	require.NoError(t, err)
	assert.Empty(t, cands)
}

func TestNoRecordFoundIsNotAnError(t *testing.T) {
	m := NewMatcher(&fakeLookup{}, nil)

	cands, err := m.FindCandidates(context.Background(), "ABC-1234", "0712345678")
	require.NoError(t, err)
	assert.Empty(t, cands)
}

func TestLookupFailureIsSurfaced(t *testing.T) {
	boom := errors.New("connection refused")
	m := NewMatcher(&fakeLookup{err: boom}, nil)

	_, err := m.FindCandidates(context.Background(), "ABC-1234", "")
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
}

func TestMatchFieldsUsesExtractedIdentityValues(t *testing.T) {
	rec := vehicleRecord("ABC1234", time.Now())
	m := NewMatcher(&fakeLookup{byPlate: map[string]*entity.Record{"ABC1234": rec}}, nil)

	cands, err := m.MatchFields(context.Background(), entity.FieldSet{
		constants.FieldPlateNumber: {Value: "ABC1234", RulePriority: 10},
	})
	require.NoError(t, err)
	require.Len(t, cands, 1)
	assert.Equal(t, rec.ID, cands[0].RecordID)
}
