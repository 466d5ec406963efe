package gosonar_test

import (
	"errors"
	"fmt"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/securego/gosonar"
)

var _ = Describe("APIError", func() {
	Context("when creating errors", func() {
		It("should format the status code and the message", func() {
			err := gosonar.NewAPIError(400, "Invalid key", nil, nil)
			Expect(err.Error()).To(Equal("[400] Invalid key"))
		})

		It("should append the other error messages", func() {
			err := gosonar.NewAPIError(400, "first", []gosonar.ErrorMessage{{Msg: "first"}, {Msg: "second"}}, nil)
			Expect(err.Error()).To(Equal("[400] first: second"))
		})

		It("should not repeat the message", func() {
			err := gosonar.NewAPIError(404, "Project 'x' not found", []gosonar.ErrorMessage{{Msg: "Project 'x' not found"}}, nil)
			Expect(err.Error()).To(Equal("[404] Project 'x' not found"))
		})

		It("should use the default message of the status code", func() {
			Expect(gosonar.NewAPIError(401, "", nil, nil).Message).To(Equal("Authentication failed"))
			Expect(gosonar.NewAPIError(403, "", nil, nil).Message).To(Equal("Permission denied"))
			Expect(gosonar.NewAPIError(404, "", nil, nil).Message).To(Equal("Resource not found"))
			Expect(gosonar.NewAPIError(500, "", nil, nil).Message).To(Equal("Unknown error"))
		})
	})

	Context("when matching errors", func() {
		It("should match the sentinel of the status code", func() {
			wrapped := fmt.Errorf("searching issues: %w", gosonar.NewAPIError(404, "", nil, nil))
			Expect(gosonar.IsNotFound(wrapped)).To(BeTrue())
			Expect(gosonar.IsAuthenticationError(wrapped)).To(BeFalse())

			Expect(gosonar.IsAuthenticationError(gosonar.NewAPIError(401, "", nil, nil))).To(BeTrue())
			Expect(gosonar.IsPermissionError(gosonar.NewAPIError(403, "", nil, nil))).To(BeTrue())
			Expect(gosonar.IsValidationError(gosonar.NewAPIError(400, "", nil, nil))).To(BeTrue())
		})

		It("should not match a sentinel for other status codes", func() {
			err := gosonar.NewAPIError(503, "", nil, nil)
			Expect(errors.Unwrap(err)).To(BeNil())
			Expect(gosonar.IsNotFound(err)).To(BeFalse())
		})

		It("should extract the APIError", func() {
			wrapped := fmt.Errorf("wrapped: %w", gosonar.NewAPIError(409, "Conflict", nil, []byte("{}")))
			apiErr, ok := gosonar.AsAPIError(wrapped)
			Expect(ok).To(BeTrue())
			Expect(apiErr.StatusCode).To(Equal(409))
			Expect(apiErr.Details).To(Equal([]byte("{}")))

			_, ok = gosonar.AsAPIError(errors.New("plain"))
			Expect(ok).To(BeFalse())
		})
	})
})

var _ = Describe("ConnectionError", func() {
	It("should wrap the transport error", func() {
		cause := errors.New("connection refused")
		err := &gosonar.ConnectionError{Message: "Failed to connect", Err: cause}
		Expect(err.Error()).To(Equal("Failed to connect: connection refused"))
		Expect(errors.Is(err, cause)).To(BeTrue())
		Expect(gosonar.IsConnectionError(fmt.Errorf("ping: %w", err))).To(BeTrue())
	})

	It("should print the message alone without cause", func() {
		Expect((&gosonar.ConnectionError{Message: "HTTP error occurred"}).Error()).To(Equal("HTTP error occurred"))
	})
})

var _ = Describe("DecodeError", func() {
	It("should name the endpoint", func() {
		err := &gosonar.DecodeError{Endpoint: "/api/system/status", Err: errors.New(`missing required field "id"`)}
		Expect(err.Error()).To(Equal(`decoding response of /api/system/status: missing required field "id"`))
	})
})
