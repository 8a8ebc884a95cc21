package pathutils_test

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	pathutils "github.com/temirov/repoman/internal/utils/path"
)

const testHomeDirectoryConstant = "/home/tester"

func TestPathExpanderExpand(testInstance *testing.T) {
	expander := pathutils.NewPathExpanderWithProvider(func() (string, error) {
		return testHomeDirectoryConstant, nil
	})

	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "home_only", input: "~", expected: testHomeDirectoryConstant},
		{name: "home_relative", input: "~/src/projects", expected: filepath.Join(testHomeDirectoryConstant, "src/projects")},
		{name: "trims_whitespace", input: "  /srv/git\t", expected: "/srv/git"},
		{name: "relative_untouched", input: "workspace", expected: "workspace"},
		{name: "other_user_untouched", input: "~other/src", expected: "~other/src"},
		{name: "blank", input: "   ", expected: ""},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			require.Equal(testInstance, testCase.expected, expander.Expand(testCase.input))
		})
	}
}

func TestPathExpanderLeavesTildeWhenHomeIsUnknown(testInstance *testing.T) {
	providerCalls := 0
	expander := pathutils.NewPathExpanderWithProvider(func() (string, error) {
		providerCalls++
		return "", errors.New("no home")
	})

	require.Equal(testInstance, "~/src", expander.Expand("~/src"))
	require.Equal(testInstance, "~", expander.Expand("~"))
	require.Equal(testInstance, 1, providerCalls)
}

func TestPathExpanderExpandAllDropsBlanks(testInstance *testing.T) {
	expander := pathutils.NewPathExpanderWithProvider(func() (string, error) {
		return testHomeDirectoryConstant, nil
	})

	require.Equal(testInstance,
		[]string{"/srv/a", filepath.Join(testHomeDirectoryConstant, "b")},
		expander.ExpandAll([]string{" /srv/a ", "", "~/b", "\t"}),
	)
	require.Nil(testInstance, expander.ExpandAll([]string{" "}))
	require.Nil(testInstance, expander.ExpandAll(nil))
}
