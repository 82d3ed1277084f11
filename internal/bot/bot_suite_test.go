package bot_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/jaswdr/faker"

	"github.com/scoreit/scoreit"
	"github.com/scoreit/scoreit/internal/bot"
	"github.com/scoreit/scoreit/internal/command"
	"github.com/scoreit/scoreit/internal/discord"
	"github.com/scoreit/scoreit/internal/discord/discordtest"
	"github.com/scoreit/scoreit/internal/dump"
	"github.com/scoreit/scoreit/internal/event"
	"github.com/scoreit/scoreit/internal/points"
	"github.com/scoreit/scoreit/internal/scoreboard"
	"github.com/scoreit/scoreit/internal/service"
	"github.com/scoreit/scoreit/internal/store/null"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestBot(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Bot Suite")
}

var _ = Describe("Bot", func() {
	var (
		botName = "scoreit"
		fake    faker.Faker
		admin   string
		svc     service.Service
		router  *command.Router
		session *discordtest.ResponseRecorder
	)

	message := func(author, content string) discord.Message {
		return discord.Message{
			ID:        fake.UUID().V4(),
			GuildID:   "1234",
			ChannelID: "9876",
			AuthorID:  author,
			Content:   content,
		}
	}

	listen := func(ctx context.Context, messages ...discord.Message) {
		session = discordtest.NewResponseRecorder(messages)
		b := bot.New(session, svc, router, bot.Options{Admins: []string{admin}, TopN: 2})
		_ = b.Listen(ctx)
	}

	deposit := func(ctx context.Context, id, name string, n int64) {
		_, err := svc.Deposit(ctx, scoreit.Deposit{
			PlayerID:   id,
			PlayerName: name,
			Item:       "minecraft:emerald",
			Quantity:   n,
			Tags:       []string{"scoreit:1_point"},
		})
		Expect(err).ToNot(HaveOccurred())
	}

	BeforeEach(func() {
		fake = faker.New()
		admin = fake.UUID().V4()
		router = command.NewRouter(botName, 3)
		svc = service.New(scoreboard.New(), null.New(), event.Discard{}, dump.New(GinkgoT().TempDir()), points.New(""))
	})

	When("a state command is sent", func() {
		Context("by someone who is not an admin", func() {
			It("refuses and leaves the game alone", func(ctx SpecContext) {
				listen(ctx, message(fake.UUID().V4(), fmt.Sprintf("%s start", botName)))

				Expect(session.Contents()).To(ConsistOf(`Only game admins can do that.`))
				Expect(svc.State()).To(Equal(scoreit.StateNone))
			})
		})

		Context("by an admin", func() {
			It("starts the game and confirms", func(ctx SpecContext) {
				msg := message(admin, fmt.Sprintf("%s start", botName))
				listen(ctx, msg)

				Expect(svc.State()).To(Equal(scoreit.StateStarted))
				Expect(session.Responses).To(ContainElement(discordtest.Response{
					Reaction: discordtest.Reaction{ChannelID: "9876", MessageID: msg.ID, Emoji: "✅"},
				}))
				Expect(session.Contents()).To(ConsistOf(`The game has started! Drop your items in the box.`))
			})

			It("names the current state when the transition is not allowed", func(ctx SpecContext) {
				listen(ctx, message(admin, fmt.Sprintf("%s stop", botName)))

				Expect(session.Contents()).To(ConsistOf(`Unable to stop the game, it is currently NONE.`))
			})

			It("posts the final standings when the game ends", func(ctx SpecContext) {
				listen(ctx, message(admin, fmt.Sprintf("%s start", botName)))
				deposit(ctx, "a", "Alex", 5)
				deposit(ctx, "b", "Blair", 9)
				deposit(ctx, "c", "Casey", 1)

				listen(ctx, message(admin, fmt.Sprintf("%s end", botName)))

				Expect(svc.State()).To(Equal(scoreit.StateEnded))
				Expect(session.Contents()).To(ConsistOf(
					"The game is over!\nFinal standings:\n1. Blair - 9 points\n2. Alex - 5 points\n",
				))
				Expect(svc.Scores(ctx, 0, "")).To(BeEmpty())
			})

			It("rejects trailing arguments and leaves the game alone", func(ctx SpecContext) {
				listen(ctx, message(admin, fmt.Sprintf("%s start now", botName)))

				Expect(session.Contents()).To(ConsistOf(`The start command takes no arguments.`))
				Expect(svc.State()).To(Equal(scoreit.StateNone))
			})

			It("resets from any state", func(ctx SpecContext) {
				listen(ctx,
					message(admin, fmt.Sprintf("%s start", botName)),
					message(admin, fmt.Sprintf("%s end", botName)),
					message(admin, fmt.Sprintf("%s reset", botName)),
				)

				Expect(svc.State()).To(Equal(scoreit.StateNone))
				Expect(session.Contents()).To(ContainElement(`The game has been reset.`))
			})
		})
	})

	When("the scores command is invoked", func() {
		BeforeEach(func(ctx SpecContext) {
			_, err := svc.Start(ctx)
			Expect(err).ToNot(HaveOccurred())
			for i, name := range []string{"A", "B", "C", "D", "E"} {
				deposit(ctx, name, "player-"+name, int64(10-2*i))
			}
		})

		It("shows the default number of ranks", func(ctx SpecContext) {
			listen(ctx, message(fake.UUID().V4(), fmt.Sprintf("%s scores", botName)))

			Expect(session.Contents()).To(ConsistOf(
				"1. player-A - 10 points\n2. player-B - 8 points\n3. player-C - 6 points\n",
			))
		})

		It("appends the named player when they fall outside the limit", func(ctx SpecContext) {
			listen(ctx, message(fake.UUID().V4(), fmt.Sprintf("%s scores 2 PLAYER-D", botName)))

			Expect(session.Contents()).To(ConsistOf(
				"1. player-A - 10 points\n2. player-B - 8 points\n4. player-D - 4 points\n",
			))
		})

		It("rejects a zero limit", func(ctx SpecContext) {
			listen(ctx, message(fake.UUID().V4(), fmt.Sprintf("%s scores 0", botName)))

			Expect(session.Contents()).To(ConsistOf(`Board size must be a positive, non-zero number`))
		})

		It("reports unknown players", func(ctx SpecContext) {
			listen(ctx, message(fake.UUID().V4(), fmt.Sprintf("%s scores nobody", botName)))

			Expect(session.Contents()).To(ConsistOf(`No such player: nobody`))
		})
	})

	When("the board is empty", func() {
		It("says so", func(ctx SpecContext) {
			listen(ctx, message(fake.UUID().V4(), fmt.Sprintf("%s scores", botName)))

			Expect(session.Contents()).To(ConsistOf(`No one has scored yet.`))
		})
	})

	When("the status command is invoked", func() {
		It("reports the state and board size", func(ctx SpecContext) {
			listen(ctx, message(fake.UUID().V4(), fmt.Sprintf("%s status", botName)))

			Expect(session.Contents()).To(ConsistOf(`The game is NONE with 0 player(s) on the board.`))
		})
	})

	When("a message is not a command", func() {
		It("stays quiet", func(ctx SpecContext) {
			listen(ctx, message(fake.UUID().V4(), "nice weather today"))

			Expect(session.Responses).To(BeEmpty())
		})
	})
})
