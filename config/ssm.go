package config

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/rs/zerolog/log"
)

const ssmParamSuffix = "_SSM_PARAM"

// ParameterGetter is the subset of the SSM client used to resolve secrets.
type ParameterGetter interface {
	GetParameter(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
}

// HasSSMParameters reports whether any key asks to be resolved from SSM.
func HasSSMParameters(config map[string]string) bool {
	for key, value := range config {
		if strings.HasSuffix(key, ssmParamSuffix) && value != "" {
			return true
		}
	}
	return false
}

// NewSSMClient builds an SSM client from the default AWS credential chain.
func NewSSMClient(ctx context.Context) (*ssm.Client, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return ssm.NewFromConfig(awsCfg), nil
}

// LoadSSMParameters replaces every FOO_SSM_PARAM=<name> entry with
// FOO=<decrypted value of name>. Values already set directly win.
func LoadSSMParameters(ctx context.Context, config map[string]string, client ParameterGetter) error {
	for key, name := range config {
		if !strings.HasSuffix(key, ssmParamSuffix) || name == "" {
			continue
		}

		target := strings.TrimSuffix(key, ssmParamSuffix)
		if config[target] != "" {
			continue
		}

		out, err := client.GetParameter(ctx, &ssm.GetParameterInput{
			Name:           aws.String(name),
			WithDecryption: aws.Bool(true),
		})
		if err != nil {
			return fmt.Errorf("get ssm parameter %s for %s: %w", name, target, err)
		}
		if out.Parameter == nil || out.Parameter.Value == nil {
			return fmt.Errorf("ssm parameter %s has no value", name)
		}

		config[target] = aws.ToString(out.Parameter.Value)
		log.Debug().Str("key", target).Str("parameter", name).Msg("Loaded value from SSM")
	}
	return nil
}
