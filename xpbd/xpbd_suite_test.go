package xpbd

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestXpbd(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "XPBD Suite")
}
