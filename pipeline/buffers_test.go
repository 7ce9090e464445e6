package pipeline

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/golang/mock/gomock"
)

var _ = Describe("NewBuffers", func() {
	It("allocates every partition at its declared capacity", func() {
		b := NewBuffers()

		Expect(b.Command.Write()).To(HaveLen(CommandQueueAlloc))
		Expect(b.Scene.EntityIndexMap.Write()).To(HaveLen(EntityAllocation))
		Expect(b.Scene.PodPositions.Write()).To(HaveLen(EntityAllocation))
		Expect(b.XpbdDebug.Constraints.Write()).To(HaveLen(XpbdConstraintsAlloc))
		Expect(b.XpbdDebug.Selected.Write()).To(HaveLen(SelectedAlloc))
		Expect(b.Fragments.PodParents.Write()).To(HaveLen(FragmentsAlloc))
		Expect(b.Fragments.IMapNodes.Write()).To(HaveLen(XpbdNodesAlloc))
	})

	It("publishes and reads back the live link count", func() {
		b := NewBuffers()
		Expect(b.LiveLinkCount()).To(Equal(uint32(0)))

		b.SetLiveLinkCount(17)
		Expect(b.LiveLinkCount()).To(Equal(uint32(17)))
	})
})

var _ = Describe("Frame hand-off", func() {
	It("lets the consumer read exactly the commands the producer flipped, while the next frame is written elsewhere", func() {
		tb := NewTriBuffer[DrawCommand](256)

		queue := NewDrawCommandQueue()
		for i := 0; i < 100; i++ {
			queue.Push(DrawCommand{Count: uint32(i), InstanceCount: 1})
		}
		Expect(queue.Upload(tb)).To(Equal(0))
		tb.Flip()

		section := tb.Read()

		done := make(chan struct{})
		go func() {
			defer close(done)
			nextQueue := NewDrawCommandQueue()
			nextQueue.Push(DrawCommand{Count: 999})
			nextQueue.Upload(tb) // writes into the producer's new section, not `section`
		}()
		<-done

		for i := 0; i < 100; i++ {
			Expect(section[i].Count).To(Equal(uint32(i)))
		}
		for i := 100; i < len(section); i++ {
			Expect(section[i].Count).To(Equal(uint32(0)))
		}
	})

	Context("delivering to a FrameConsumer", func() {
		var ctrl *gomock.Controller

		BeforeEach(func() {
			ctrl = gomock.NewController(GinkgoT())
		})

		AfterEach(func() {
			ctrl.Finish()
		})

		It("hands a consumed frame to the consumer exactly once", func() {
			consumer := NewMockFrameConsumer(ctrl)

			commands := []DrawCommand{{Count: 3, InstanceCount: 1}}
			consumer.EXPECT().ConsumeFrame(commands, uint32(5)).Times(1)

			consumer.ConsumeFrame(commands, 5)
		})
	})
})
