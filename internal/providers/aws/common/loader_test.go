package common

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/aws/aws-sdk-go-v2/service/sts"
)

// ── mocks ─────────────────────────────────────────────────────────────────────

type mockSTS struct {
	account string
	err     error
}

func (m *mockSTS) GetCallerIdentity(
	_ context.Context,
	_ *sts.GetCallerIdentityInput,
	_ ...func(*sts.Options),
) (*sts.GetCallerIdentityOutput, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &sts.GetCallerIdentityOutput{Account: aws.String(m.account)}, nil
}

type mockEC2 struct {
	regions []string
	err     error
}

func (m *mockEC2) DescribeRegions(
	_ context.Context,
	_ *ec2.DescribeRegionsInput,
	_ ...func(*ec2.Options),
) (*ec2.DescribeRegionsOutput, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := &ec2.DescribeRegionsOutput{}
	for _, name := range m.regions {
		out.Regions = append(out.Regions, ec2types.Region{RegionName: aws.String(name)})
	}
	return out, nil
}

// ── GetActiveRegions ──────────────────────────────────────────────────────────

func TestGetActiveRegions(t *testing.T) {
	provider := NewDefaultAWSClientProvider()
	profile := &ProfileConfig{
		ProfileName: "prod",
		Clients:     &ClientSet{EC2: &mockEC2{regions: []string{"us-east-1", "eu-west-1"}}},
	}

	got, err := provider.GetActiveRegions(context.Background(), profile)
	if err != nil {
		t.Fatalf("GetActiveRegions: %v", err)
	}
	want := []string{"us-east-1", "eu-west-1"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v; want %v", got, want)
	}
}

func TestGetActiveRegions_APIError(t *testing.T) {
	provider := NewDefaultAWSClientProvider()
	profile := &ProfileConfig{
		ProfileName: "prod",
		Clients:     &ClientSet{EC2: &mockEC2{err: errors.New("access denied")}},
	}

	if _, err := provider.GetActiveRegions(context.Background(), profile); err == nil {
		t.Fatal("want an error when DescribeRegions fails")
	}
}

// ── ConfigForRegion ───────────────────────────────────────────────────────────

func TestConfigForRegion_DoesNotMutateOriginal(t *testing.T) {
	provider := NewDefaultAWSClientProvider()
	profile := &ProfileConfig{Config: aws.Config{Region: "us-east-1"}}

	regional := provider.ConfigForRegion(profile, "eu-west-1")
	if regional.Region != "eu-west-1" {
		t.Errorf("regional config region = %q; want eu-west-1", regional.Region)
	}
	if profile.Config.Region != "us-east-1" {
		t.Errorf("original config mutated to %q", profile.Config.Region)
	}
}

// ── account resolution ────────────────────────────────────────────────────────

func TestResolveAccountID(t *testing.T) {
	got, err := resolveAccountID(context.Background(), &mockSTS{account: "123456789012"})
	if err != nil {
		t.Fatalf("resolveAccountID: %v", err)
	}
	if got != "123456789012" {
		t.Errorf("got %q; want the mocked account", got)
	}
}

func TestResolveAccountID_Error(t *testing.T) {
	if _, err := resolveAccountID(context.Background(), &mockSTS{err: errors.New("expired token")}); err == nil {
		t.Fatal("want an error when GetCallerIdentity fails")
	}
}

// ── profile discovery ─────────────────────────────────────────────────────────

func TestDiscoverProfiles(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	awsDir := filepath.Join(home, ".aws")
	if err := os.MkdirAll(awsDir, 0o755); err != nil {
		t.Fatal(err)
	}

	credentials := "[default]\naws_access_key_id = x\n\n[prod]\naws_access_key_id = y\n"
	if err := os.WriteFile(filepath.Join(awsDir, "credentials"), []byte(credentials), 0o600); err != nil {
		t.Fatal(err)
	}
	// The config file prefixes non-default sections with "profile ", and
	// repeats a name already present in the credentials file.
	config := "[default]\nregion = us-east-1\n\n[profile prod]\nregion = eu-west-1\n\n[profile staging]\nregion = us-west-2\n"
	if err := os.WriteFile(filepath.Join(awsDir, "config"), []byte(config), 0o600); err != nil {
		t.Fatal(err)
	}

	got, err := DiscoverProfiles()
	if err != nil {
		t.Fatalf("DiscoverProfiles: %v", err)
	}
	want := []string{"default", "prod", "staging"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v; want %v (deduplicated, credentials first)", got, want)
	}
}

func TestDiscoverProfiles_NoFiles(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	got, err := DiscoverProfiles()
	if err != nil {
		t.Fatalf("DiscoverProfiles: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("got %v; want no profiles when neither file exists", got)
	}
}

func TestParseProfilesFromFile_StripPrefix(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config")
	content := "[default]\n[profile alpha]\n[profile beta]\nnot a header\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	got, err := parseProfilesFromFile(path, true)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"default", "alpha", "beta"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v; want %v", got, want)
	}
}
