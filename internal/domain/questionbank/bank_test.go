package questionbank_test

import (
	"testing"

	"github.com/MalekSoula7/AI-Career-Studio/internal/domain/model"
	"github.com/MalekSoula7/AI-Career-Studio/internal/domain/questionbank"
	. "github.com/smartystreets/goconvey/convey"
)

func TestQuestionsFor(t *testing.T) {
	Convey("Given a question bank", t, func() {
		bank := questionbank.New()

		Convey("When resolving a tailored role", func() {
			qs := bank.QuestionsFor("Backend Engineer")

			Convey("Then the sequence is finite and ends with a fit question", func() {
				So(len(qs), ShouldEqual, 5)
				So(qs[len(qs)-1].Category, ShouldEqual, "fit")
				So(qs[len(qs)-1].Prompt, ShouldContainSubstring, "Backend Engineer")
			})

			Convey("Then every question carries keyword hints", func() {
				for _, q := range qs {
					So(len(q.Hints), ShouldBeGreaterThan, 0)
				}
			})
		})

		Convey("When resolving the same role twice", func() {
			first := bank.QuestionsFor("Backend Engineer")
			second := bank.QuestionsFor("Backend Engineer")

			Convey("Then the sequences are identical", func() {
				So(second, ShouldResemble, first)
			})
		})

		Convey("When the role has no tailored set", func() {
			qs := bank.QuestionsFor("Astronaut")

			Convey("Then the generic sequence is used, plus the fit closer", func() {
				So(len(qs), ShouldEqual, 5)
				So(qs[0].Category, ShouldEqual, "experience")
				So(qs[4].Category, ShouldEqual, "fit")
			})
		})

		Convey("When the role is empty", func() {
			qs := bank.QuestionsFor("")

			Convey("Then only the generic sequence is returned", func() {
				So(len(qs), ShouldEqual, 4)
			})
		})

		Convey("When role lookup differs only in case and spacing", func() {
			a := bank.QuestionsFor("backend engineer")
			b := bank.QuestionsFor("  Backend Engineer ")
			So(a[0].Prompt, ShouldEqual, b[0].Prompt)
		})

		Convey("When mutating a returned sequence", func() {
			qs := bank.QuestionsFor("Backend Engineer")
			qs[0].Prompt = "mutated"

			Convey("Then the bank state is unaffected", func() {
				So(bank.QuestionsFor("Backend Engineer")[0].Prompt, ShouldNotEqual, "mutated")
			})
		})
	})
}

func TestWithSet(t *testing.T) {
	Convey("Given a bank with a custom role set", t, func() {
		custom := []model.Question{
			{ID: "q1", Prompt: "Describe a compiler pass you wrote.", Category: "skill", Hints: []string{"pass", "ir"}},
		}
		bank := questionbank.New(questionbank.WithSet("Compiler Engineer", custom))

		Convey("Then the custom sequence is served for that role", func() {
			qs := bank.QuestionsFor("compiler engineer")
			So(len(qs), ShouldEqual, 2)
			So(qs[0].Prompt, ShouldContainSubstring, "compiler pass")
		})
	})

	Convey("Given a bank whose fallback sequence is overridden", t, func() {
		short := []model.Question{
			{ID: "q1", Prompt: "Tell me about yourself.", Category: "behavioral", Hints: []string{"background"}},
			{ID: "q2", Prompt: "Why this job?", Category: "fit", Hints: []string{"motivat"}},
		}
		bank := questionbank.New(questionbank.WithSet("", short))

		Convey("Then the empty role serves exactly the override, no closer", func() {
			qs := bank.QuestionsFor("")
			So(len(qs), ShouldEqual, 2)
			So(qs[0].ID, ShouldEqual, "q1")
			So(qs[1].ID, ShouldEqual, "q2")
		})

		Convey("Then unknown roles fall back to the override plus the fit closer", func() {
			qs := bank.QuestionsFor("astronaut")
			So(len(qs), ShouldEqual, 3)
			So(qs[2].Category, ShouldEqual, "fit")
		})

		Convey("Then tailored roles are unaffected", func() {
			qs := bank.QuestionsFor("backend engineer")
			So(len(qs), ShouldBeGreaterThan, 2)
		})
	})
}
