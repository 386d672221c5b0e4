package recommend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stayfinder/internal/domain"
)

func trainingRows() []domain.RatingSignal {
	return []domain.RatingSignal{
		{UserID: 1, HotelID: 10, Rating: 5},
		{UserID: 1, HotelID: 11, Rating: 4},
		{UserID: 1, HotelID: 12, Rating: 1},
		{UserID: 2, HotelID: 10, Rating: 5},
		{UserID: 2, HotelID: 12, Rating: 2},
		{UserID: 3, HotelID: 11, Rating: 4},
		{UserID: 3, HotelID: 12, Rating: 1},
		{UserID: 3, HotelID: 10, Rating: 4},
		{UserID: 4, HotelID: 11, Rating: 5},
		{UserID: 4, HotelID: 12, Rating: 2},
	}
}

func TestFitSVD_Deterministic(t *testing.T) {
	rows := trainingRows()
	a := fitSVD(rows, defaultSVDParams())
	b := fitSVD(rows, defaultSVDParams())

	for _, uid := range []int64{1, 2, 3, 4} {
		for _, hid := range []int64{10, 11, 12} {
			ea, _ := a.predict(uid, hid)
			eb, _ := b.predict(uid, hid)
			assert.Equal(t, ea, eb, "user %d hotel %d", uid, hid)
		}
	}
}

func TestFitSVD_PredictionsStayInRange(t *testing.T) {
	m := fitSVD(trainingRows(), defaultSVDParams())
	for _, uid := range []int64{1, 2, 3, 4, 99} {
		for _, hid := range []int64{10, 11, 12, 99} {
			est, _ := m.predict(uid, hid)
			assert.GreaterOrEqual(t, est, 1.0)
			assert.LessOrEqual(t, est, 5.0)
		}
	}
}

func TestFitSVD_RecoversPreferenceDirection(t *testing.T) {
	// hotel 12 is universally disliked; any trained user should rank it below
	// the well liked hotels
	m := fitSVD(trainingRows(), defaultSVDParams())
	good, known := m.predict(1, 10)
	require.True(t, known)
	bad, known := m.predict(1, 12)
	require.True(t, known)
	assert.Greater(t, good, bad)
}

func TestPredict_UnknownPair(t *testing.T) {
	m := fitSVD(trainingRows(), defaultSVDParams())

	_, known := m.predict(999, 999)
	assert.False(t, known, "neither side trained")

	_, known = m.predict(999, 10)
	assert.True(t, known, "item bias still carries signal")

	_, known = m.predict(1, 999)
	assert.True(t, known, "user bias still carries signal")
}

func TestFitSVD_EmptyRows(t *testing.T) {
	m := fitSVD(nil, defaultSVDParams())
	est, known := m.predict(1, 1)
	assert.False(t, known)
	assert.Equal(t, 1.0, est, "zero mean clamps up to the scale floor")
}
