package config

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/ssm/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetters(t *testing.T) {
	c := map[string]string{
		"PORT":       "4000",
		"BAD_INT":    "four",
		"PADDED_INT": " 7 ",
		"EMPTY":      "",
		"FLAG":       "true",
		"TIMEOUT":    "45",
		"ORIGINS":    " https://a.example , ,*.vercel.app,",
	}

	assert.Equal(t, "4000", GetString(c, "PORT", "8080"))
	assert.Equal(t, "fallback", GetString(c, "EMPTY", "fallback"))
	assert.Equal(t, "fallback", GetString(nil, "PORT", "fallback"))

	assert.Equal(t, 4000, GetInt(c, "PORT", 1))
	assert.Equal(t, 1, GetInt(c, "BAD_INT", 1))
	assert.Equal(t, 7, GetInt(c, "PADDED_INT", 1))
	assert.Equal(t, 3, GetInt(c, "MISSING", 3))

	assert.True(t, GetBool(c, "FLAG", false))
	assert.True(t, GetBool(c, "MISSING", true))
	assert.False(t, GetBool(c, "PORT", false))

	assert.Equal(t, 45*time.Second, GetSeconds(c, "TIMEOUT", 30))
	assert.Equal(t, 30*time.Second, GetSeconds(c, "MISSING", 30))

	assert.Equal(t, []string{"https://a.example", "*.vercel.app"}, GetList(c, "ORIGINS"))
	assert.Nil(t, GetList(c, "EMPTY"))
}

func TestSplit(t *testing.T) {
	key, value := split("DATABASE_URL=postgres://u:p@h/db?a=b")
	assert.Equal(t, "DATABASE_URL", key)
	assert.Equal(t, "postgres://u:p@h/db?a=b", value)

	key, value = split("NOVALUE")
	assert.Equal(t, "NOVALUE", key)
	assert.Empty(t, value)
}

type fakeParameterStore struct {
	values map[string]string
	calls  []string
}

func (f *fakeParameterStore) GetParameter(_ context.Context, params *ssm.GetParameterInput, _ ...func(*ssm.Options)) (*ssm.GetParameterOutput, error) {
	name := aws.ToString(params.Name)
	f.calls = append(f.calls, name)
	if !aws.ToBool(params.WithDecryption) {
		return nil, errors.New("expected decryption")
	}
	value, ok := f.values[name]
	if !ok {
		return nil, errors.New("parameter not found")
	}
	return &ssm.GetParameterOutput{Parameter: &types.Parameter{Name: params.Name, Value: aws.String(value)}}, nil
}

func TestLoadSSMParameters(t *testing.T) {
	store := &fakeParameterStore{values: map[string]string{
		"/legit/jwt-secret": "from-ssm",
		"/legit/db-url":     "postgres://ssm",
	}}
	c := map[string]string{
		"ADMIN_JWT_SECRET_SSM_PARAM": "/legit/jwt-secret",
		"DATABASE_URL_SSM_PARAM":     "/legit/db-url",
		"DATABASE_URL":               "postgres://direct",
		"PORT":                       "4000",
	}

	require.True(t, HasSSMParameters(c))
	require.NoError(t, LoadSSMParameters(context.Background(), c, store))

	assert.Equal(t, "from-ssm", c["ADMIN_JWT_SECRET"])
	assert.Equal(t, "postgres://direct", c["DATABASE_URL"], "direct values win")
	assert.Equal(t, []string{"/legit/jwt-secret"}, store.calls)
}

func TestLoadSSMParametersMissing(t *testing.T) {
	c := map[string]string{"RESEND_API_KEY_SSM_PARAM": "/legit/missing"}

	err := LoadSSMParameters(context.Background(), c, &fakeParameterStore{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RESEND_API_KEY")
	assert.Empty(t, c["RESEND_API_KEY"])
}

func TestHasSSMParametersNone(t *testing.T) {
	assert.False(t, HasSSMParameters(map[string]string{"PORT": "4000", "EMPTY_SSM_PARAM": ""}))
}
