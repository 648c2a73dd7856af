/*
Package visibility sequences one element through the
Hidden → Showing → Shown → Hiding cycle.

A Machine is driven by its host the same way a UI framework drives a
component:

 1. SetParameters is called on every parameter pass, the first one included.
 2. Render returns the class and style of the element for the current state.
 3. AfterRender is called once the output was committed. It may confirm a
    style flush with the host and request another render.

Completion timers mirror the longest total duration of the active
transition. Their callbacks must run on the goroutine that owns the Machine;
the host guarantees that through its ports.TimerService.

The resting visible style is taken from the exit transition, not the enter
one: Hidden renders enter.InitialStyle, Showing enter.FinishStyle, Shown
exit.InitialStyle and Hiding exit.FinishStyle.
*/
package visibility
