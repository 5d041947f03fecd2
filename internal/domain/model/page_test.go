package model_test

import (
	"encoding/json"
	"testing"

	"github.com/okian/attrition/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func TestPageData(t *testing.T) {
	convey.Convey("Given the empty page data", t, func() {
		pd := model.EmptyPageData()

		convey.Convey("When encoding it", func() {
			b, err := json.Marshal(pd)

			convey.Convey("Then both collections encode as empty arrays", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(string(b), convey.ShouldEqual, `{"employees":[],"topEmployees":[]}`)
			})
		})
	})

	convey.Convey("Given page data with opaque records", t, func() {
		pd := model.PageData{
			Employees:    []model.EmployeeRecord{json.RawMessage(`{"id":1,"name":"A"}`)},
			TopEmployees: []model.TopAtRiskEntry{json.RawMessage(`{"id":1,"risk":0.8}`)},
		}

		convey.Convey("When encoding it", func() {
			b, err := json.Marshal(pd)

			convey.Convey("Then records pass through unchanged", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(string(b), convey.ShouldEqual,
					`{"employees":[{"id":1,"name":"A"}],"topEmployees":[{"id":1,"risk":0.8}]}`)
			})
		})
	})
}

func TestTopEmployeeDecoding(t *testing.T) {
	convey.Convey("Given a top_employees element from the scoring service", t, func() {
		raw := `{"employee_index":12,"probability":0.91,"top_features":[{"feature":"num__OverTime","impact":0.42}]}`

		convey.Convey("When decoding into TopEmployee", func() {
			var te model.TopEmployee
			err := json.Unmarshal([]byte(raw), &te)

			convey.Convey("Then all fields are populated", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(te.EmployeeIndex, convey.ShouldEqual, 12)
				convey.So(te.Probability, convey.ShouldEqual, 0.91)
				convey.So(te.TopFeatures, convey.ShouldHaveLength, 1)
				convey.So(te.TopFeatures[0].Feature, convey.ShouldEqual, "num__OverTime")
			})
		})
	})
}
