package errest_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestErrest(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Error Estimator Suite")
}
